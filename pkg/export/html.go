package export

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/formdeck/formdeck/pkg/form"
	"github.com/formdeck/formdeck/pkg/tree"
)

// htmlPage is the standalone form page. Widgets recurse through the "node"
// template; containers map to structural elements, leaves to form controls.
const htmlPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<form class="formdeck">
{{- range .Body}}
{{template "node" .}}
{{- end}}
</form>
</body>
</html>
{{define "node"}}
{{- if eq .Kind "form"}}<fieldset id="{{.ID}}">
{{- range .Children}}{{template "node" .}}{{end}}
</fieldset>
{{- else if eq .Kind "group"}}<fieldset id="{{.ID}}">
{{- with prop . "label"}}<legend>{{.}}</legend>{{end}}
{{- range .Children}}{{template "node" .}}{{end}}
</fieldset>
{{- else if eq .Kind "row"}}<div id="{{.ID}}" class="row">
{{- range .Children}}{{template "node" .}}{{end}}
</div>
{{- else if eq .Kind "text"}}<p id="{{.ID}}">{{prop . "text"}}</p>
{{- else if eq .Kind "input"}}<label for="{{.ID}}">{{prop . "label"}}</label>
<input id="{{.ID}}" name="{{.ID}}" type="text"{{if propBool . "required"}} required{{end}}>
{{- else if eq .Kind "textarea"}}<label for="{{.ID}}">{{prop . "label"}}</label>
<textarea id="{{.ID}}" name="{{.ID}}"{{if propBool . "required"}} required{{end}}></textarea>
{{- else if eq .Kind "select"}}<label for="{{.ID}}">{{prop . "label"}}</label>
<select id="{{.ID}}" name="{{.ID}}">
{{- range options .}}<option>{{.}}</option>{{end}}
</select>
{{- else if eq .Kind "checkbox"}}<label><input id="{{.ID}}" name="{{.ID}}" type="checkbox"> {{prop . "label"}}</label>
{{- else if eq .Kind "button"}}<button id="{{.ID}}" type="submit">{{prop . "label"}}</button>
{{- end}}
{{- end}}`

var htmlTmpl = template.Must(template.New("page").Funcs(template.FuncMap{
	"prop":     propString,
	"propBool": propBool,
	"options":  propOptions,
}).Parse(htmlPage))

func propString(n *tree.Node, key string) string {
	if v, ok := n.Props[key]; ok {
		return fmt.Sprint(v)
	}
	return ""
}

func propBool(n *tree.Node, key string) bool {
	b, _ := n.Props[key].(bool)
	return b
}

// propOptions reads the "options" property of a select. JSON decoding
// yields []any, in-memory construction may use []string; both are accepted.
func propOptions(n *tree.Node) []string {
	switch v := n.Props["options"].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, len(v))
		for i, o := range v {
			out[i] = fmt.Sprint(o)
		}
		return out
	}
	return nil
}

// HTML renders doc as a standalone HTML page. All property values pass
// through html/template's contextual escaping.
func HTML(doc *form.Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := htmlTmpl.Execute(&buf, doc); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	return buf.Bytes(), nil
}
