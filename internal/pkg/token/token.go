package token

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Targeting tokens travel as transport start-arguments: "admin_<memberID>".
const prefix = "admin_"

var ErrInvalidToken = errors.New("invalid targeting token")

// Codec issues and parses member targeting tokens and builds the deep link
// the transport renders (typically as a QR code). Encoding is deterministic
// and never consults storage.
type Codec struct {
	botHandle string
}

// NewCodec builds a Codec bound to the public bot handle.
func NewCodec(botHandle string) *Codec {
	return &Codec{botHandle: botHandle}
}

// Issue returns the targeting token for a member id.
func (c *Codec) Issue(memberID int64) string {
	return prefix + strconv.FormatInt(memberID, 10)
}

// Parse extracts the member id from a targeting token.
func (c *Codec) Parse(token string) (int64, error) {
	rest, ok := strings.CutPrefix(token, prefix)
	if !ok {
		return 0, ErrInvalidToken
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidToken
	}
	return id, nil
}

// IsToken reports whether a start-argument looks like a targeting token.
func (c *Codec) IsToken(arg string) bool {
	return strings.HasPrefix(arg, prefix)
}

// DeepLink returns the shareable link embedding the targeting token.
func (c *Codec) DeepLink(memberID int64) string {
	return fmt.Sprintf("https://t.me/%s?start=%s", c.botHandle, c.Issue(memberID))
}
