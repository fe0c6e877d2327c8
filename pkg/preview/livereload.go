package preview

import (
	"bytes"
	"net/http"
)

// reloadScript subscribes to EventsPath and reloads the page on each event,
// reconnecting with backoff when the server goes away.
const reloadScript = `<script>
(function() {
  if (typeof(EventSource) === 'undefined') return;
  var delay = 1000;
  function connect() {
    var es = new EventSource('` + EventsPath + `');
    es.addEventListener('connected', function() { delay = 1000; });
    es.addEventListener('reload', function() { location.reload(); });
    es.onerror = function() {
      es.close();
      setTimeout(connect, delay);
      delay = Math.min(delay * 2, 30000);
    };
  }
  connect();
})();
</script>`

// liveReload injects reloadScript before </body> of the wrapped handler's
// HTML output.
func liveReload(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		irw := &injectingWriter{ResponseWriter: w, inject: []byte(reloadScript)}
		next.ServeHTTP(irw, r)
		irw.Flush()
	})
}

// injectingWriter buffers a response until </html> so the script can be
// placed before </body>.
type injectingWriter struct {
	http.ResponseWriter
	inject    []byte
	injected  bool
	buf       []byte
	committed bool
}

func (w *injectingWriter) Write(b []byte) (int, error) {
	if w.committed {
		return w.ResponseWriter.Write(b)
	}
	w.buf = append(w.buf, b...)

	if idx := bytes.LastIndex(w.buf, []byte("</body>")); idx >= 0 && !w.injected {
		out := make([]byte, 0, len(w.buf)+len(w.inject))
		out = append(out, w.buf[:idx]...)
		out = append(out, w.inject...)
		out = append(out, w.buf[idx:]...)
		w.buf = out
		w.injected = true
	}

	if bytes.Contains(w.buf, []byte("</html>")) {
		w.committed = true
		_, err := w.ResponseWriter.Write(w.buf)
		return len(b), err
	}
	return len(b), nil
}

// Flush writes whatever is still buffered, appending the script if the page
// had no </body>.
func (w *injectingWriter) Flush() {
	if !w.committed && len(w.buf) > 0 {
		w.committed = true
		if !w.injected {
			w.buf = append(w.buf, w.inject...)
		}
		_, _ = w.ResponseWriter.Write(w.buf)
	}
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
