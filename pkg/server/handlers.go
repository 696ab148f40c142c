package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/matzehuels/heatgrid/pkg/buildinfo"
	"github.com/matzehuels/heatgrid/pkg/config"
	"github.com/matzehuels/heatgrid/pkg/errors"
	"github.com/matzehuels/heatgrid/pkg/pipeline"
	"github.com/matzehuels/heatgrid/pkg/render"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format, err := render.ParseFormat(queryOr(r, "format", string(render.FormatSVG)))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := queryOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Formats = []string{string(format)}

	f, err := s.readFigure(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.runner.Execute(r.Context(), f, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("X-Cache", cacheHeader(res.CacheInfo.RenderHit))
	if res.FigureHash != "" {
		w.Header().Set("ETag", strconv.Quote(res.FigureHash))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[string(format)])
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts, err := queryOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	f, err := s.readFigure(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	l, hit, err := s.runner.Layout(r.Context(), f, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("X-Cache", cacheHeader(hit))
	writeJSON(w, http.StatusOK, l)
}

// readFigure decodes the request body in the syntax named by its
// Content-Type. CSV references are refused.
func (s *Server) readFigure(w http.ResponseWriter, r *http.Request) (*config.File, error) {
	format, err := config.FormatFromContentType(r.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		return nil, err
	}
	f, err := config.Parse(body, format)
	if err != nil {
		return nil, err
	}
	if err := f.Resolve(""); err != nil {
		return nil, err
	}
	return f, nil
}

// queryOptions reads the optional aspect, dpi and refresh parameters.
func queryOptions(r *http.Request) (pipeline.Options, error) {
	var opts pipeline.Options
	q := r.URL.Query()
	if v := q.Get("aspect"); v != "" {
		a, err := strconv.ParseFloat(v, 64)
		if err != nil || a < 0 {
			return opts, errors.New(errors.ErrCodeInvalidInput, "aspect must be a non-negative number, got %q", v)
		}
		opts.Aspect = &a
	}
	if v := q.Get("dpi"); v != "" {
		d, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "dpi must be a number, got %q", v)
		}
		opts.DPI = d
	}
	if v := q.Get("refresh"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "refresh must be a boolean, got %q", v)
		}
		opts.Refresh = b
	}
	return opts, nil
}

func queryOr(r *http.Request, key, def string) string {
	if v := r.URL.Query().Get(key); v != "" {
		return v
	}
	return def
}

func cacheHeader(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
