package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

// closeNotifyRecorder adds the http.CloseNotifier method gin's Stream
// requires but httptest.ResponseRecorder does not implement.
type closeNotifyRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

func (r *closeNotifyRecorder) CloseNotify() <-chan bool { return r.closed }

func TestUploadProgressStreamOpenedBeforeUpload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := New(nil, nil, nil, nil, nil)

	w := &closeNotifyRecorder{httptest.NewRecorder(), make(chan bool, 1)}
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/uploads/u1/progress", nil)
	c.Params = gin.Params{{Key: "id", Value: "u1"}}

	// The browser opens the stream before the form POST registers the
	// upload; the handler must wait on a pending tracker, not 404.
	done := make(chan struct{})
	go func() {
		defer close(done)
		h.UploadProgress(c)
	}()

	tracker := h.uploads.GetOrCreate("u1")
	tracker.SetPercent(50)
	tracker.Complete("/media/cover.png")
	<-done

	body := w.Body.String()
	if !strings.Contains(body, "event:progress") {
		t.Fatalf("no progress events streamed: %q", body)
	}
	if !strings.Contains(body, `"status":"completed"`) {
		t.Errorf("stream never reached completed: %q", body)
	}
	if !strings.Contains(body, `"percent":100`) {
		t.Errorf("final percent missing: %q", body)
	}
}
