// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"

	"github.com/pdiddy/research-view/internal/view"
	"github.com/pdiddy/research-view/pkg/types"
)

var pageTmpl = template.Must(template.New("page").Funcs(template.FuncMap{
	"percent": func(p *int) string {
		if p == nil {
			return ""
		}
		return fmt.Sprintf("%d%%", *p)
	},
	"jsonList": func(v []string) (string, error) {
		b, err := json.Marshal(v)
		return string(b), err
	},
	"sourceName": view.SourceName,
}).Parse(pageTemplate))

type thresholdOption struct {
	Value string
	Label string
}

var thresholdOptions = []thresholdOption{
	{"high", "0.8"},
	{"medium", "0.6"},
	{"low", "0.4"},
}

type pageData struct {
	Labels     view.Labels
	SessionID  string
	Phase      string
	Query      string
	Sections   []SectionState
	Total      int
	Error      string
	ErrorKind  string
	Frame      Frame
	Emojis     []string
	Form       Form
	Sources    []string
	Thresholds []thresholdOption
	AssetBase  string
	InlineCSS  template.CSS
	InlineJS   template.JS
}

// WriteHTML writes the full page for the current state to w.
func (v *View) WriteHTML(w io.Writer) error {
	data := pageData{
		Labels:     v.labels,
		SessionID:  v.sessionID,
		Phase:      v.phase.String(),
		Query:      v.query,
		Sections:   v.sections,
		Total:      v.total(),
		Error:      v.errMsg,
		ErrorKind:  v.errKind.String(),
		Frame:      v.frame(),
		Emojis:     LoadingEmojis,
		Form:       v.form,
		Sources:    types.KnownSources,
		Thresholds: thresholdOptions,
		AssetBase:  v.assetBase,
	}
	if v.inline {
		data.InlineCSS = template.CSS(Stylesheet)
		data.InlineJS = template.JS(Script)
	}
	if err := pageTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("rendering page: %w", err)
	}
	return nil
}

const pageTemplate = `<!DOCTYPE html>
<html lang="{{.Labels.Lang}}">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{if .Query}}{{.Query}} · {{end}}Research View</title>
    {{- if .InlineCSS}}
    <style>{{.InlineCSS}}</style>
    {{- else}}
    <link rel="stylesheet" href="{{.AssetBase}}/app.css">
    {{- end}}
</head>
<body data-session="{{.SessionID}}" data-phase="{{.Phase}}"
      data-copied="{{.Labels.Copied}}" data-copy-fail="{{.Labels.CopyFail}}"
      data-emojis="{{jsonList .Emojis}}" data-messages="{{jsonList .Labels.LoadingMessages}}">
<main class="container">
    <form id="search-form" class="search-form" action="/search" method="get">
        <label>{{.Labels.Keyword}}
            <input type="text" name="keyword" value="{{.Form.Keyword}}" minlength="3" required>
        </label>
        <fieldset class="sources">
            <legend>{{.Labels.Sources}}</legend>
            {{- range .Sources}}
            <label><input type="checkbox" name="sources" value="{{.}}"{{if $.Form.Has .}} checked{{end}}> {{sourceName .}}</label>
            {{- end}}
        </fieldset>
        <label>{{.Labels.Threshold}}
            <select name="similarity_threshold">
                {{- range .Thresholds}}
                <option value="{{.Value}}"{{if eq .Value $.Form.Threshold}} selected{{end}}>{{.Value}} ({{.Label}})</option>
                {{- end}}
            </select>
        </label>
        <label>{{.Labels.MaxResults}}
            <input type="text" name="max_results" value="{{.Form.MaxResults}}" size="4">
        </label>
        <button type="submit">{{.Labels.Search}}</button>
    </form>

    <div id="loading" class="loading"{{if ne .Phase "loading"}} hidden{{end}}>
        <span class="loading-emoji">{{.Frame.Emoji}}</span>
        <span class="loading-message">{{.Frame.Message}}</span>
    </div>

    <div id="results">
    {{- if eq .Phase "error"}}
        <div class="error" role="alert" data-error-kind="{{.ErrorKind}}">
            <h2>{{.Labels.ErrorTitle}}</h2>
            <p class="error-message">{{.Error}}</p>
        </div>
    {{- else if eq .Phase "empty"}}
        <div class="no-results">
            <h2>{{.Labels.NoResultsTitle}}</h2>
            <p class="query">{{.Query}}</p>
            <ul class="suggestions">
                {{- range .Labels.Suggestions}}
                <li>{{.}}</li>
                {{- end}}
            </ul>
        </div>
    {{- else if eq .Phase "results"}}
        <div class="results-header">
            <h2>{{.Labels.ResultsFor}} <q>{{.Query}}</q></h2>
            <span class="results-total">{{.Total}} {{.Labels.Results}}</span>
            <button type="button" class="expand-all" data-action="expand-all">{{.Labels.ExpandAll}}</button>
            <button type="button" class="collapse-all" data-action="collapse-all">{{.Labels.CollapseAll}}</button>
        </div>
        {{- range .Sections}}
        <section class="source-section{{if .Expanded}} expanded{{end}}" data-section="{{.Key}}">
            <button type="button" class="section-header" data-toggle="{{.Key}}" aria-expanded="{{.Expanded}}">
                <span class="section-title">{{.Name}}</span>
                <span class="section-count">{{.Total}} {{$.Labels.Results}}</span>
            </button>
            <ol class="section-body"{{if not .Expanded}} hidden{{end}}>
                {{- range .Records}}
                <li class="article"{{if .Rank}} data-rank="{{.Rank}}"{{end}}>
                    <h3 class="article-title">{{.Title}}</h3>
                    <p class="article-authors">{{.Authors}}</p>
                    <p class="article-meta">
                        <span class="article-date">{{.Date}}</span>
                        {{- if .Volume}} <span class="article-volume">{{$.Labels.Volume}} {{.Volume}}</span>{{end}}
                        {{- if .Issue}} <span class="article-issue">{{$.Labels.Issue}} {{.Issue}}</span>{{end}}
                        {{- if .Similarity}} <span class="similarity">{{$.Labels.Similarity}}: {{percent .Similarity}}</span>{{end}}
                    </p>
                    {{- if .Keywords}}
                    <ul class="keywords">
                        {{- range .Keywords}}
                        <li class="keyword">{{.}}</li>
                        {{- end}}
                    </ul>
                    {{- end}}
                    {{- $kind := .Action.Kind.String}}
                    {{- if eq $kind "copy_id"}}
                    <button type="button" class="action action-copy" data-copy="{{.Action.Value}}">{{$.Labels.CopyID}}</button>
                    {{- else if eq $kind "open_doi"}}
                    <a class="action action-doi" href="{{.Action.Href}}" target="_blank" rel="noopener">{{$.Labels.OpenDOI}}</a>
                    {{- else if eq $kind "open_link"}}
                    <a class="action action-link" href="{{.Action.Href}}" target="_blank" rel="noopener">{{$.Labels.OpenLink}}</a>
                    {{- else}}
                    <span class="action action-none">{{$.Labels.NoLink}}</span>
                    {{- end}}
                </li>
                {{- end}}
            </ol>
        </section>
        {{- end}}
    {{- end}}
    </div>
</main>
{{- if .InlineJS}}
<script>{{.InlineJS}}</script>
{{- else}}
<script src="{{.AssetBase}}/app.js"></script>
{{- end}}
</body>
</html>
`
