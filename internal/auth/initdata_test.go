package auth

import (
	"net/url"
	"strings"
	"testing"
)

const testToken = "12345:test-token"

func TestValidateRoundTrip(t *testing.T) {
	initData := BuildInitData(User{ID: 42, FirstName: "Вася", Username: "vasya"}, testToken)
	user, err := Validate(initData, testToken)
	if err != nil {
		t.Fatalf("valid init data rejected: %v", err)
	}
	if user.ID != 42 || user.Username != "vasya" {
		t.Fatalf("wrong user extracted: %+v", user)
	}
}

func TestValidateRejectsTampering(t *testing.T) {
	initData := BuildInitData(User{ID: 42, Username: "vasya"}, testToken)
	tampered := strings.Replace(initData, "vasya", "petya", 1)
	if _, err := Validate(tampered, testToken); err == nil {
		t.Fatalf("tampered payload accepted")
	}
}

func TestValidateRejectsWrongToken(t *testing.T) {
	initData := BuildInitData(User{ID: 42}, testToken)
	if _, err := Validate(initData, "other:token"); err == nil {
		t.Fatalf("payload signed with another token accepted")
	}
}

func TestValidateRejectsEmpty(t *testing.T) {
	if _, err := Validate("", testToken); err == nil {
		t.Fatalf("empty init data accepted")
	}
	if _, err := Validate("user=%7B%22id%22%3A1%7D", testToken); err == nil {
		t.Fatalf("unsigned init data accepted")
	}
}

func TestDisplayName(t *testing.T) {
	cases := []struct {
		user User
		want string
	}{
		{User{ID: 1, Username: "vasya", FirstName: "Вася"}, "@vasya"},
		{User{ID: 1, FirstName: "Вася", LastName: "Пупкин"}, "Вася Пупкин"},
		{User{ID: 1}, "1"},
	}
	for _, tc := range cases {
		if got := tc.user.DisplayName(); got != tc.want {
			t.Fatalf("DisplayName(%+v) = %q, want %q", tc.user, got, tc.want)
		}
	}
}

func TestFromRequestHeader(t *testing.T) {
	header := func(key string) string {
		if key == "X-Init-Data" {
			return "from-header"
		}
		return ""
	}
	if got := FromRequestHeader(header, nil); got != "from-header" {
		t.Fatalf("header should win, got %q", got)
	}
	empty := func(string) string { return "" }
	query := url.Values{"initData": {"from-query"}}
	if got := FromRequestHeader(empty, query); got != "from-query" {
		t.Fatalf("query fallback broken, got %q", got)
	}
}
