package schema

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var idPattern = regexp.MustCompile(`^[0-9a-f]{24}$`)

func TestAssignID(t *testing.T) {
	at := time.Unix(1700000000, 0)

	id := AssignID(VariantParagraph, "hello world", at)
	assert.Equal(t, "a566914b3e2e9e9ab86685de", id)
	assert.Equal(t, id, AssignID(VariantParagraph, "hello world", at))

	assert.NotEqual(t, id, AssignID(VariantParagraph, "hello world!", at))
	assert.NotEqual(t, id, AssignID(VariantParagraph, "hello world", at.Add(time.Second)))
}

func TestAssignID_Format(t *testing.T) {
	inputs := []string{"", "a", "héllo wörld", "line\nbreak", string(make([]byte, 4096))}
	for i, content := range inputs {
		id := AssignID(VariantCode, content, time.Unix(int64(i), 0))
		assert.Regexp(t, idPattern, id)
	}
}

func TestAssignID_IgnoresSubsecond(t *testing.T) {
	at := time.Unix(1700000000, 0)
	assert.Equal(t, AssignID(VariantHeading, "x", at), AssignID(VariantHeading, "x", at.Add(900*time.Millisecond)))
}

func TestStamp(t *testing.T) {
	at := time.Unix(1700000000, 0)

	el := Stamp(Paragraph{ID: "model-chosen", Data: "hello world"}, at)
	assert.Equal(t, Paragraph{ID: "a566914b3e2e9e9ab86685de", Data: "hello world"}, el)

	list := Stamp(BulletList{ID: "b", Items: []ListItem{{ID: "1", Value: "a"}, {ID: "2", Value: "b"}}}, at)
	require.IsType(t, BulletList{}, list)
	assert.Equal(t, AssignID(VariantBulletList, "a\nb", at), list.ElementID())
	assert.Equal(t, "1", list.(BulletList).Items[0].ID)
}

func TestWithURI(t *testing.T) {
	assert.Equal(t, Image{ID: "i", URI: "https://x/y.png"}, WithURI(Image{ID: "i"}, "https://x/y.png"))
	assert.Equal(t, Paragraph{ID: "p", Data: "d"}, WithURI(Paragraph{ID: "p", Data: "d"}, "https://x"))
}
