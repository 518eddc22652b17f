package services

import (
	"bytes"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// uploadHeader builds a *multipart.FileHeader the way gin hands one to a
// handler, by writing and re-reading a multipart body.
func uploadHeader(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("ReadForm: %v", err)
	}
	t.Cleanup(func() { form.RemoveAll() })

	return form.File["file"][0]
}

func TestSaveWritesFileAndReportsProgress(t *testing.T) {
	media, err := NewMediaService(t.TempDir())
	if err != nil {
		t.Fatalf("NewMediaService: %v", err)
	}

	content := strings.Repeat("x", 1000)
	header := uploadHeader(t, "cover image.png", content)

	var reports []int
	mf, err := media.Save(header, func(pct int) { reports = append(reports, pct) })
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if !strings.HasPrefix(mf.Path, "/media/cover_image_") {
		t.Errorf("Path = %q, want /media/cover_image_* prefix", mf.Path)
	}
	if !strings.HasSuffix(mf.Name, ".png") {
		t.Errorf("Name = %q, want .png suffix", mf.Name)
	}
	if mf.Size != int64(len(content)) {
		t.Errorf("Size = %d, want %d", mf.Size, len(content))
	}

	data, err := os.ReadFile(filepath.Join(media.dir, mf.Name))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(data) != content {
		t.Error("stored content differs from upload")
	}

	if len(reports) == 0 {
		t.Fatal("no progress reports")
	}
	if reports[0] != 0 {
		t.Errorf("first report = %d, want 0", reports[0])
	}
	if last := reports[len(reports)-1]; last != 100 {
		t.Errorf("last report = %d, want 100", last)
	}
}

func TestSaveNilProgress(t *testing.T) {
	media, err := NewMediaService(t.TempDir())
	if err != nil {
		t.Fatalf("NewMediaService: %v", err)
	}

	if _, err := media.Save(uploadHeader(t, "a.txt", "hello"), nil); err != nil {
		t.Fatalf("Save with nil progress: %v", err)
	}
}

func TestListAndDelete(t *testing.T) {
	media, err := NewMediaService(t.TempDir())
	if err != nil {
		t.Fatalf("NewMediaService: %v", err)
	}

	mf, err := media.Save(uploadHeader(t, "pic.jpg", "data"), nil)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	files, err := media.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(files) != 1 || files[0].Name != mf.Name {
		t.Fatalf("List = %+v, want single entry %q", files, mf.Name)
	}

	if err := media.Delete(mf.Name); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	files, err = media.List()
	if err != nil {
		t.Fatalf("List after delete: %v", err)
	}
	if len(files) != 0 {
		t.Fatalf("List after delete = %+v, want empty", files)
	}
}

func TestDeleteRejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	media, err := NewMediaService(filepath.Join(dir, "media"))
	if err != nil {
		t.Fatalf("NewMediaService: %v", err)
	}

	secret := filepath.Join(dir, "secret.txt")
	if err := os.WriteFile(secret, []byte("keep"), 0o644); err != nil {
		t.Fatal(err)
	}

	media.Delete("../secret.txt")
	if _, err := os.Stat(secret); err != nil {
		t.Fatal("file outside the media dir was removed")
	}
}
