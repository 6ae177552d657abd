package web

import (
	"bytes"
	"html/template"

	"checkpoint/internal/format"
	"checkpoint/internal/home"
	"checkpoint/internal/models"
)

// Fragments are re-rendered on every state change and swapped into the page
// by element id. The name input lives outside them so typing survives.
const fragments = `
{{define "button"}}<button{{with .ID}} id="{{.}}"{{end}} type="{{or .Type "button"}}" class="btn {{.Class}}"{{if .Disabled}} disabled{{end}}{{with .Delete}} data-delete="{{.}}"{{end}}>{{.Label}}</button>{{end}}

{{define "input"}}<input type="text" id="{{.ID}}" placeholder="{{.Placeholder}}" value="{{.Value}}" autocomplete="off">{{end}}

{{define "pending"}}
{{- if .PendingUID -}}
<div class="detected" data-uid="{{.PendingUID}}"{{if .Loading}} data-loading{{end}}>
 <span class="muted">Detected Card:</span> <strong class="mono">{{.PendingUID}}</strong>
</div>
{{- else -}}
<p class="muted">Waiting for new card scan...</p>
{{- end -}}
{{end}}

{{define "users"}}
{{- if .Users -}}
<ul class="users">
{{- range .Users}}
 <li><span>{{.Name}} <span class="muted mono">{{.UID}}</span></span>{{template "button" (deleteButton .UID)}}</li>
{{- end}}
</ul>
{{- else -}}
<p class="muted">No registered users</p>
{{- end -}}
{{end}}

{{define "attendance"}}
<table>
 <thead><tr>{{range .Header}}<th>{{.}}</th>{{end}}</tr></thead>
 <tbody>
{{- range .Rows}}
  <tr><td>{{.Name}}</td><td>{{.CheckIn}}</td><td>{{.CheckOut}}</td></tr>
{{- end}}
 </tbody>
</table>
{{end}}

{{define "failure"}}{{with .}}<div class="error-box">✘ {{.Error}}</div>{{end}}{{end}}
`

type button struct {
	ID       string
	Type     string
	Label    string
	Class    string
	Disabled bool

	// Delete is the uid removed when the button is clicked.
	Delete string
}

func deleteButton(uid string) button {
	return button{Label: "Delete", Class: "btn-danger btn-sm", Delete: uid}
}

type input struct {
	ID          string
	Placeholder string
	Value       string
}

var tmpl = template.Must(template.Must(template.New("fragments").Funcs(template.FuncMap{
	"deleteButton": deleteButton,
}).Parse(fragments)).Parse(pageHTML))

// index is the data for the page shell; the fragments arrive over the socket.
var index = struct {
	Name     input
	Register button
}{
	Name:     input{ID: "name", Placeholder: "Enter name"},
	Register: button{ID: "register-btn", Type: "submit", Label: "Register", Class: "btn-primary", Disabled: true},
}

type attendanceView struct {
	Header []string
	Rows   []format.Row
}

// Render produces the four page fragments for s.
func Render(s home.State, f format.Formatter) (models.StatePayload, error) {
	var p models.StatePayload
	var err error
	if p.Pending, err = execute("pending", s); err != nil {
		return p, err
	}
	if p.Users, err = execute("users", s); err != nil {
		return p, err
	}
	view := attendanceView{
		Header: []string{"Name", "Check In", "Check Out"},
		Rows:   format.Rows(s.Attendance, f),
	}
	if p.Attendance, err = execute("attendance", view); err != nil {
		return p, err
	}
	if p.Failure, err = execute("failure", s.Failure); err != nil {
		return p, err
	}
	return p, nil
}

func execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
