package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// ErrInvalid is returned when the init data payload is missing, malformed or
// fails the signature check.
var ErrInvalid = errors.New("invalid init data")

// User is the Telegram account embedded in the signed init data payload.
type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
}

// DisplayName returns the name shown to other players: the @username when
// present, otherwise the full name, otherwise the numeric id.
func (u User) DisplayName() string {
	if u.Username != "" {
		return "@" + u.Username
	}
	name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if name != "" {
		return name
	}
	return strconv.FormatInt(u.ID, 10)
}

func secretKey(botToken string) []byte {
	mac := hmac.New(sha256.New, []byte("WebAppData"))
	mac.Write([]byte(botToken))
	return mac.Sum(nil)
}

func checkString(values url.Values) string {
	keys := make([]string, 0, len(values))
	for key := range values {
		if key == "hash" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+values.Get(key))
	}
	return strings.Join(pairs, "\n")
}

// Sign computes the init data signature for the given key/value pairs,
// excluding any existing "hash" entry.
func Sign(values url.Values, botToken string) string {
	mac := hmac.New(sha256.New, secretKey(botToken))
	mac.Write([]byte(checkString(values)))
	return hex.EncodeToString(mac.Sum(nil))
}

// Validate verifies the signature of a raw init data query string and extracts
// the embedded user. Returns ErrInvalid when the payload cannot be trusted.
func Validate(initData, botToken string) (*User, error) {
	if botToken == "" || initData == "" {
		return nil, ErrInvalid
	}
	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, ErrInvalid
	}
	provided := values.Get("hash")
	if provided == "" {
		return nil, ErrInvalid
	}
	expected := Sign(values, botToken)
	if !hmac.Equal([]byte(expected), []byte(provided)) {
		return nil, ErrInvalid
	}
	raw := values.Get("user")
	if raw == "" {
		return nil, ErrInvalid
	}
	var user User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, ErrInvalid
	}
	if user.ID == 0 {
		return nil, ErrInvalid
	}
	return &user, nil
}

// BuildInitData produces a signed init data string for the given user. Used by
// tests and local tooling to talk to the sandbox without a real Telegram host.
func BuildInitData(user User, botToken string) string {
	raw, _ := json.Marshal(user)
	values := url.Values{}
	values.Set("user", string(raw))
	values.Set("auth_date", "0")
	values.Set("hash", Sign(values, botToken))
	return values.Encode()
}

// FromRequestHeader extracts the raw init data from the places the mini-app
// host puts it: the X-Init-Data header or the initData/init_data query params.
func FromRequestHeader(header func(string) string, query url.Values) string {
	if v := header("X-Init-Data"); v != "" {
		return v
	}
	if v := query.Get("initData"); v != "" {
		return v
	}
	return query.Get("init_data")
}
