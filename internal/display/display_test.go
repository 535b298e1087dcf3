package display

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "hello w...", Truncate("hello world!", 10))
	assert.Equal(t, "ab", Truncate("abcdef", 2))
	assert.Equal(t, "ação...", Truncate("açãozinha boa", 7))
}

func TestSanitizeBody(t *testing.T) {
	assert.Equal(t, "Hello Ana & co", SanitizeBody(`<p>Hello <b>Ana</b> &amp; co</p><script>alert(1)</script>`))
	assert.Equal(t, "plain", SanitizeBody("  plain \n"))
}

func TestConfidence(t *testing.T) {
	assert.Equal(t, "92%", Confidence(0.92))
	assert.Equal(t, "0%", Confidence(0))
}

func TestTimeAgo(t *testing.T) {
	assert.Equal(t, "", TimeAgo(""))
	assert.Equal(t, "just now", TimeAgo(time.Now().UTC().Format(time.RFC3339)))
	assert.Equal(t, "2h ago", TimeAgo(time.Now().Add(-2*time.Hour-time.Minute).UTC().Format("2006-01-02T15:04:05.999999")))
	assert.Equal(t, "not-a-dat", TimeAgo("not-a-dat"))
}
