package root

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lumen/internal/ai"
	"lumen/internal/tools"
)

func TestParseFields(t *testing.T) {
	in, err := parseFields([]string{"topic=Cells", "count = 5", "text=a=b"})
	require.NoError(t, err)
	assert.Equal(t, "Cells", in.Fields["topic"])
	assert.Equal(t, " 5", in.Fields["count"])
	assert.Equal(t, "a=b", in.Fields["text"])

	_, err = parseFields([]string{"novalue"})
	assert.Error(t, err)
}

func TestAttachFile(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("mitochondria"), 0o644))
	pdf := filepath.Join(dir, "paper.pdf")
	require.NoError(t, os.WriteFile(pdf, []byte("%PDF-1.4"), 0o644))

	in := tools.Input{Fields: map[string]string{}}
	require.NoError(t, attachFile(&in, tools.IDDocumentReader, txt))
	assert.Equal(t, "mitochondria", in.Fields["document"])
	assert.Nil(t, in.Attachment)

	require.NoError(t, attachFile(&in, tools.IDPDFReader, pdf))
	require.NotNil(t, in.Attachment)
	assert.Equal(t, "application/pdf", in.Attachment.MIMEType)

	assert.Error(t, attachFile(&in, tools.IDDocumentReader, pdf))
}

func TestSaveImage(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	path, err := saveImage(dir, "mapCreator", 0, &ai.Image{MIMEType: "image/png", Data: []byte{1, 2}})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "mapCreator-1.png"), path)
	assert.FileExists(t, path)
}
