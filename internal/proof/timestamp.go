package proof

import (
	"strings"
	"time"
)

// timestampLayout is the fixed wire format the remote service expects for
// PASSWORD_CLAIM and DEVICE_PASSWORD_CLAIM timestamps: US English weekday
// and month names, UTC, day-of-month NOT zero-padded. Go's "_2" layout
// directive space-pads the day instead of zero-padding it; stripping the
// extra space yields the non-padded form the server expects.
const timestampLayout = "Mon Jan _2 15:04:05 UTC 2006"

// Timestamp renders t (converted to UTC) in the fixed format the server
// expects, e.g. "Tue Apr 9 07:04:32 UTC 2024".
func Timestamp(t time.Time) string {
	s := t.UTC().Format(timestampLayout)
	return strings.Replace(s, "  ", " ", 1)
}
