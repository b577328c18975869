package device

import (
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jypelle/dsislider/apimodel"
	"github.com/jypelle/dsislider/internal/srv/config"
	"github.com/jypelle/dsislider/internal/srv/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testApiKey = "secret"

// serveEvents answers api events the way the server event loop does.
func serveEvents(t *testing.T, api *Api) *[]interface{} {
	var received []interface{}
	done := make(chan struct{})
	go func() {
		for {
			select {
			case ev := <-api.EventChannel():
				received = append(received, ev.Data)
				switch data := ev.Data.(type) {
				case event.ApiEventStateData:
					*data.State = apimodel.SliderState{Index: 2, Count: 3, Axis: "vertical", ActiveRegion: "B"}
					ev.Result <- nil
				case event.ApiEventFrameData:
					img := image.NewRGBA(image.Rect(0, 0, 4, 2))
					img.SetRGBA(1, 1, color.RGBA{255, 0, 0, 255})
					*data.Frame = img
					ev.Result <- nil
				case event.ApiEventTouchData:
					if data.Touch.X != nil && *data.Touch.X < 0 {
						ev.Result <- ErrUnavailable
					} else {
						ev.Result <- nil
					}
				default:
					ev.Result <- nil
				}
			case <-done:
				return
			}
		}
	}()
	t.Cleanup(func() { close(done) })
	return &received
}

func newTestApi() *Api {
	return NewApi(&config.ServerConfig{
		ConfigDir: "unused",
		ServerParam: &config.ServerParam{
			ApiParam: config.ApiParam{Enabled: true, SslPort: 8443, ApiKey: testApiKey},
		},
	})
}

func do(api *Api, method, path, body, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if key != "" {
		req.Header.Set("x-api-key", key)
	}
	rec := httptest.NewRecorder()
	api.Handler().ServeHTTP(rec, req)
	return rec
}

func TestApiRequiresKey(t *testing.T) {
	api := newTestApi()

	assert.Equal(t, http.StatusForbidden, do(api, "GET", "/api/is_alive", "", "").Code)
	assert.Equal(t, http.StatusForbidden, do(api, "GET", "/api/is_alive", "", "wrong").Code)
	assert.Equal(t, http.StatusOK, do(api, "GET", "/api/is_alive", "", testApiKey).Code)
}

func TestApiState(t *testing.T) {
	api := newTestApi()
	serveEvents(t, api)

	rec := do(api, "GET", "/api/state", "", testApiKey)
	require.Equal(t, http.StatusOK, rec.Code)

	var state apimodel.SliderState
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&state))
	assert.Equal(t, 2, state.Index)
	assert.Equal(t, "vertical", state.Axis)
}

func TestApiTouch(t *testing.T) {
	api := newTestApi()
	received := serveEvents(t, api)

	rec := do(api, "POST", "/api/touch", `{"detected":true,"x":130,"y":0}`, testApiKey)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(api, "POST", "/api/touch", `{"detected":`, testApiKey)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(api, "POST", "/api/touch", `{"detected":true,"x":-1}`, testApiKey)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(api, "POST", "/api/touch", `{"detected":false}`, testApiKey)
	assert.Equal(t, http.StatusOK, rec.Code)

	x, y := 130, 0
	require.Len(t, *received, 3)
	assert.Equal(t, event.ApiEventTouchData{Touch: apimodel.TouchState{Detected: true, X: &x, Y: &y}}, (*received)[0])
	assert.Equal(t, event.ApiEventTouchData{Touch: apimodel.TouchState{}}, (*received)[2])
}

func TestApiAxisToggle(t *testing.T) {
	api := newTestApi()
	received := serveEvents(t, api)

	assert.Equal(t, http.StatusOK, do(api, "POST", "/api/axis/toggle", "", testApiKey).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(api, "GET", "/api/axis/toggle", "", testApiKey).Code)
	require.Len(t, *received, 1)
	assert.Equal(t, event.ApiEventAxisToggleData{}, (*received)[0])
}

func TestApiFrame(t *testing.T) {
	api := newTestApi()
	serveEvents(t, api)

	rec := do(api, "GET", "/api/frame.png", "", testApiKey)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	img, err := png.Decode(rec.Body)
	require.NoError(t, err)
	r, _, _, _ := img.At(1, 1).RGBA()
	assert.Equal(t, uint32(0xffff), r)
}

func TestApiNotFound(t *testing.T) {
	api := newTestApi()
	assert.Equal(t, http.StatusNotFound, do(api, "GET", "/api/unknown", "", testApiKey).Code)
}
