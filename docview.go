package microservices

import (
	"encoding/json"
	"html/template"
	"net/http"
	"sort"
	"strings"
)

// MethodIntro contains method with its description.
type MethodIntro struct {
	Method      string `json:"method"`
	Description string `json:"description"`
}

// SelfIntro describes one path for the documentation view: its
// methods, and whatever Resource metadata was attached at
// registration time.
type SelfIntro struct {
	Path    string            `json:"path"`
	Name    string            `json:"name,omitempty"`
	URL     string            `json:"url,omitempty"`
	Methods []MethodIntro     `json:"methods"`
	Params  map[string]string `json:"params,omitempty"`
}

func (t *Router) selfIntro() SelfIntro {
	methods := make([]MethodIntro, 0, len(t.methods))
	for method, desc := range t.methods {
		if t.resource != nil {
			// Resource method info overrides the
			// registration description.
			if override, ok := t.resource.Info.Methods[method]; ok {
				desc = override
			}
		}
		methods = append(methods, MethodIntro{
			Method:      method,
			Description: desc,
		})
	}
	sort.Slice(methods, func(i, j int) bool {
		return methods[i].Method < methods[j].Method
	})
	intro := SelfIntro{
		Path:    t.path,
		Methods: methods,
	}
	if t.resource != nil {
		intro.Name = t.resource.Info.Name
		intro.Params = t.resource.Params
		if url, ok := t.resource.URL.Resolve(t.path); ok {
			intro.URL = url
		}
	}
	return intro
}

// SelfIntro returns SelfIntro of the Router itself and all routers
// under it.
func (t *Router) SelfIntro() []SelfIntro {
	intros := make([]SelfIntro, 0)
	var recursive func(router *Router)
	recursive = func(router *Router) {
		intros = append(intros, router.selfIntro())
		for _, child := range router.children {
			recursive(child)
		}
	}
	recursive(t)
	return intros
}

// SelfIntro returns the introductions of every path registered on
// the Handler, in registration order.
func (t *Handler) SelfIntro() []SelfIntro {
	intros := make([]SelfIntro, 0)
	for _, router := range t.routes {
		intros = append(intros, router.SelfIntro()...)
	}
	return intros
}

// acceptsHTML reports whether the request prefers a browsable HTML
// representation over JSON. Media ranges are inspected in header
// order; quality parameters are ignored. JSON wins by default, as
// well as on */* .
func acceptsHTML(req *http.Request) bool {
	for _, accept := range req.Header.Values("Accept") {
		for _, item := range strings.Split(accept, ",") {
			mediaType := strings.TrimSpace(item)
			if i := strings.IndexByte(mediaType, ';'); i >= 0 {
				mediaType = strings.TrimSpace(mediaType[:i])
			}
			switch mediaType {
			case HTML_TYPE, "application/xhtml+xml":
				return true
			case JSON_TYPE, "application/*", "*/*":
				return false
			}
		}
	}
	return false
}

var docTemplate = template.Must(template.New("doc").Parse(`<!DOCTYPE html>
<html>
<head><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
{{range .Intros}}
<h2>{{if .Name}}{{.Name}} &mdash; {{end}}{{.Path}}</h2>
{{if .URL}}<p>URL: <a href="{{.URL}}">{{.URL}}</a></p>{{end}}
<ul>
{{range .Methods}}<li><b>{{.Method}}</b> {{.Description}}</li>
{{end}}</ul>
{{if .Params}}<p>Parameters:</p>
<ul>
{{range $name, $example := .Params}}<li><code>{{$name}}</code>, e.g. {{$example}}</li>
{{end}}</ul>{{end}}
{{end}}</body>
</html>
`))

type docPage struct {
	Title  string
	Intros []SelfIntro
}

func writeDoc(w http.ResponseWriter, req *http.Request, title string,
	intros []SelfIntro) {
	if acceptsHTML(req) {
		w.Header().Set(CONTENT_TYPE, HTML_TYPE+"; charset=utf-8")
		err := docTemplate.Execute(w, docPage{Title: title, Intros: intros})
		if err != nil {
			panic(err)
		}
		return
	}
	w.Header().Set(CONTENT_TYPE, JSON_TYPE)
	b, err := json.MarshalIndent(intros, "", "  ")
	if err != nil {
		panic(err)
	}
	_, err = w.Write(b)
	if err != nil {
		panic(err)
	}
}

// SelfIntroHandlerFunc wraps around SelfIntro() as an
// http.HandlerFunc. It renders JSON, or a browsable HTML page when
// the Accept header prefers text/html.
func (t *Router) SelfIntroHandlerFunc(w http.ResponseWriter, req *http.Request) {
	writeDoc(w, req, t.path, t.SelfIntro())
}

// SelfIntroHandlerFunc renders the documentation view of every path
// registered on the Handler.
func (t *Handler) SelfIntroHandlerFunc(w http.ResponseWriter, req *http.Request) {
	writeDoc(w, req, "API", t.SelfIntro())
}
