package worldstub

import (
	"bytes"
	"log/slog"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"
	"github.com/muesli/reflow/wordwrap"
)

// motdWidth matches the narrowest terminal the launcher renders into.
const motdWidth = 80

const defaultMotd = `Welcome back, {{ .Account | title }}! You have {{ .Characters }} ` +
	`{{ if eq .Characters 1 }}character{{ else }}characters{{ end }} waiting in Ithoria. ` +
	`The realm clock reads {{ .Time }}.`

var templateFuncs = sprig.TxtFuncMap()

type motdData struct {
	Account    string
	Characters int
	Time       string
}

// renderMotd expands the server's MOTD template and word-wraps it for the
// client. A broken template costs the greeting, never the login.
func (s *Server) renderMotd(account string, characters int) string {
	tmpl, err := template.New("motd").Funcs(templateFuncs).Parse(s.motdTemplate)
	if err != nil {
		slog.Warn("parsing motd template", "error", err)
		return ""
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, motdData{
		Account:    account,
		Characters: characters,
		Time:       time.Now().Format(time.Kitchen),
	})
	if err != nil {
		slog.Warn("executing motd template", "error", err)
		return ""
	}

	return wordwrap.String(buf.String(), motdWidth)
}
