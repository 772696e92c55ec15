package printer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDocumentStartsWithInit(t *testing.T) {
	doc := NewDocument(32)
	assert.Equal(t, []byte{ESC, '@'}, doc.Bytes()[:2])
}

func TestKeyValueAlignment(t *testing.T) {
	doc := NewDocument(32)
	doc.buf.Reset()

	doc.KeyValue("Subtotal:", "100.00")
	line := doc.Bytes()

	// key flush left, value flush right, line exactly the paper width
	assert.Equal(t, 33, len(line)) // 32 chars + LF
	assert.True(t, bytes.HasPrefix(line, []byte("Subtotal:")))
	assert.True(t, bytes.HasSuffix(line, []byte("100.00\n")))
}

func TestKeyValueNeverCollides(t *testing.T) {
	doc := NewDocument(16)
	doc.buf.Reset()

	doc.KeyValue("A very long key here", "99999.00")
	line := string(doc.Bytes())
	assert.Contains(t, line, "A very long key here 99999.00")
}

func TestItemLineFormat(t *testing.T) {
	doc := NewDocument(32)
	doc.buf.Reset()

	doc.ItemLine(2, "Atlas of Clouds", "360.00")
	line := string(doc.Bytes())
	assert.Contains(t, line, "2x Atlas of Clouds")
	assert.Contains(t, line, "360.00")
	assert.Equal(t, 33, len(line))
}

func TestSeparatorFillsWidth(t *testing.T) {
	doc := NewDocument(32)
	doc.buf.Reset()

	doc.Separator('-')
	assert.Equal(t, bytes.Repeat([]byte{'-'}, 32), doc.Bytes()[:32])
}

func TestPartialCutCommand(t *testing.T) {
	doc := NewDocument(32)
	doc.buf.Reset()

	doc.PartialCut()
	assert.Equal(t, []byte{GS, 'V', 0x01}, doc.Bytes())
}

func TestZeroWidthDefaultsTo58mm(t *testing.T) {
	doc := NewDocument(0)
	doc.buf.Reset()

	doc.Separator('=')
	assert.Equal(t, 33, len(doc.Bytes()))
}
