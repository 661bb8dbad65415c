package ui

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/me/heroconsole/pkg/model"
)

// Template functions available in all templates.
var templateFuncs = template.FuncMap{
	"formatTime": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.Format("2006-01-02 15:04:05")
	},
	"add": func(a, b int) int {
		return a + b
	},
	"sub": func(a, b int) int {
		return a - b
	},
	"comma": func(n int) string {
		return humanize.Comma(int64(n))
	},
	"percent": func(a, b int) int {
		if b == 0 {
			return 0
		}
		return (a * 100) / b
	},
	"toJSON": func(v any) template.JS {
		b, err := json.Marshal(v)
		if err != nil {
			return template.JS("[]")
		}
		return template.JS(b)
	},
	"truncate": truncate,
	// pageQuery encodes the list query for the given page. The result is
	// already escaped by url.Values.
	"pageQuery": func(q url.Values, page int) template.URL {
		return template.URL(pageQuery(q, page))
	},
	"deref": func(c *model.Classification) model.Classification {
		return *c
	},
	"derefRole": func(r *model.UserRole) model.UserRole {
		return *r
	},
	"multiline": func(s string) []string {
		return strings.Split(s, "\n")
	},
}

// renderTemplate renders a template with the given data.
func renderTemplate(w io.Writer, name string, data map[string]any) error {
	content, ok := templates[name]
	if !ok {
		return fmt.Errorf("template not found: %s", name)
	}

	layout, ok := templates["layout"]
	if !ok {
		return fmt.Errorf("layout template not found")
	}

	tmpl, err := template.New("layout").Funcs(templateFuncs).Parse(layout)
	if err != nil {
		return fmt.Errorf("parse layout: %w", err)
	}

	_, err = tmpl.New("content").Parse(content)
	if err != nil {
		return fmt.Errorf("parse content: %w", err)
	}

	// Add shared components.
	for compName, compContent := range templates {
		if strings.HasPrefix(compName, "components/") {
			_, err = tmpl.New(filepath.Base(compName)).Parse(compContent)
			if err != nil {
				return fmt.Errorf("parse component %s: %w", compName, err)
			}
		}
	}

	return tmpl.Execute(w, data)
}

// templates holds all template content.
var templates = map[string]string{
	"layout": `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <script src="https://cdn.tailwindcss.com"></script>
</head>
<body class="bg-gray-50 min-h-screen">
    {{if .Session}}
    <nav class="bg-white shadow-sm border-b">
        <div class="max-w-7xl mx-auto px-4 sm:px-6 lg:px-8">
            <div class="flex justify-between h-16">
                <div class="flex">
                    <a href="/" class="flex items-center px-2 py-2 text-xl font-bold text-indigo-600">
                        Hero Records
                    </a>
                    <div class="hidden sm:ml-6 sm:flex sm:space-x-8">
                        <a href="/" class="border-transparent text-gray-500 hover:border-gray-300 hover:text-gray-700 inline-flex items-center px-1 pt-1 border-b-2 text-sm font-medium">
                            Records
                        </a>
                        <a href="/charts" class="border-transparent text-gray-500 hover:border-gray-300 hover:text-gray-700 inline-flex items-center px-1 pt-1 border-b-2 text-sm font-medium">
                            Charts
                        </a>
                        {{if .Session.IsAdmin}}
                        <a href="/users" class="border-transparent text-gray-500 hover:border-gray-300 hover:text-gray-700 inline-flex items-center px-1 pt-1 border-b-2 text-sm font-medium">
                            Users
                        </a>
                        <a href="/upload" class="border-transparent text-gray-500 hover:border-gray-300 hover:text-gray-700 inline-flex items-center px-1 pt-1 border-b-2 text-sm font-medium">
                            Upload
                        </a>
                        <a href="/admin" class="border-transparent text-gray-500 hover:border-gray-300 hover:text-gray-700 inline-flex items-center px-1 pt-1 border-b-2 text-sm font-medium">
                            Admin
                        </a>
                        {{end}}
                    </div>
                </div>
                <div class="flex items-center">
                    <span class="text-sm text-gray-500 mr-4">{{.Session.Email}}</span>
                    <a href="/logout" class="text-sm text-gray-500 hover:text-gray-700">Logout</a>
                </div>
            </div>
        </div>
    </nav>
    {{end}}

    <main class="max-w-7xl mx-auto py-6 sm:px-6 lg:px-8">
        {{template "content" .}}
    </main>
</body>
</html>`,

	"components/alerts": `{{define "alerts"}}
{{if .Error}}
<div class="rounded-md bg-red-50 p-4 mb-4">
    <div class="text-sm text-red-700">{{.Error}}</div>
</div>
{{end}}
{{if .Message}}
<div class="rounded-md bg-green-50 p-4 mb-4">
    <div class="text-sm text-green-700">{{.Message}}</div>
</div>
{{end}}
{{end}}`,

	"components/pager": `{{define "pager"}}
<div class="mt-4 flex justify-between items-center">
    {{if .Table.HasPrev}}
    <a href="?{{pageQuery .Query (sub .Table.Page 1)}}"
       class="inline-flex items-center px-4 py-2 border border-gray-300 text-sm font-medium rounded-md text-gray-700 bg-white hover:bg-gray-50">
        Previous
    </a>
    {{else}}
    <span class="px-4 py-2 text-sm text-gray-300">Previous</span>
    {{end}}
    <span class="text-sm text-gray-500">
        Page {{.Table.Page}} of {{.Table.TotalPages}} ({{comma .Table.TotalCount}} total)
    </span>
    {{if .Table.HasNext}}
    <a href="?{{pageQuery .Query (add .Table.Page 1)}}"
       class="inline-flex items-center px-4 py-2 border border-gray-300 text-sm font-medium rounded-md text-gray-700 bg-white hover:bg-gray-50">
        Next
    </a>
    {{else}}
    <span class="px-4 py-2 text-sm text-gray-300">Next</span>
    {{end}}
</div>
{{end}}`,

	"login": `{{define "content"}}
<div class="min-h-screen flex items-center justify-center bg-gray-50 py-12 px-4 sm:px-6 lg:px-8">
    <div class="max-w-md w-full space-y-8">
        <div>
            <h2 class="mt-6 text-center text-3xl font-extrabold text-gray-900">
                Hero Records
            </h2>
            <p class="mt-2 text-center text-sm text-gray-600">
                Sign in with your console account
            </p>
        </div>
        {{if .Error}}
        <div class="rounded-md bg-red-50 p-4">
            <div class="text-sm text-red-700">{{.Error}}</div>
        </div>
        {{end}}
        <form class="mt-8 space-y-6" action="/login" method="POST">
            <div class="rounded-md shadow-sm -space-y-px">
                <div>
                    <label for="email" class="sr-only">Email</label>
                    <input id="email" name="email" type="email" required
                           class="appearance-none rounded-none relative block w-full px-3 py-2 border border-gray-300 placeholder-gray-500 text-gray-900 rounded-t-md focus:outline-none focus:ring-indigo-500 focus:border-indigo-500 focus:z-10 sm:text-sm"
                           placeholder="Email">
                </div>
                <div>
                    <label for="password" class="sr-only">Password</label>
                    <input id="password" name="password" type="password" required
                           class="appearance-none rounded-none relative block w-full px-3 py-2 border border-gray-300 placeholder-gray-500 text-gray-900 rounded-b-md focus:outline-none focus:ring-indigo-500 focus:border-indigo-500 focus:z-10 sm:text-sm"
                           placeholder="Password">
                </div>
            </div>
            <div>
                <button type="submit"
                        class="group relative w-full flex justify-center py-2 px-4 border border-transparent text-sm font-medium rounded-md text-white bg-indigo-600 hover:bg-indigo-700 focus:outline-none focus:ring-2 focus:ring-offset-2 focus:ring-indigo-500">
                    Sign in
                </button>
            </div>
        </form>
    </div>
</div>
{{end}}`,

	"error": `{{define "content"}}
<div class="min-h-screen flex items-center justify-center">
    <div class="text-center">
        <h1 class="text-4xl font-bold text-gray-900 mb-4">Error</h1>
        <p class="text-gray-600 mb-8">{{.Message}}</p>
        <a href="/" class="text-indigo-600 hover:text-indigo-500">Return to records</a>
    </div>
</div>
{{end}}`,

	"records/list": `{{define "content"}}
<div class="px-4 py-6 sm:px-0">
    <div class="flex justify-between items-center mb-6">
        <h1 class="text-2xl font-semibold text-gray-900">Hero records</h1>
        <div class="space-x-2">
            <a href="/records/export?format=csv&{{pageQuery .Query .Table.Page}}"
               class="inline-flex items-center px-3 py-1 border border-gray-300 text-xs font-medium rounded text-gray-700 bg-white hover:bg-gray-50">CSV</a>
            <a href="/records/export?format=xlsx&{{pageQuery .Query .Table.Page}}"
               class="inline-flex items-center px-3 py-1 border border-gray-300 text-xs font-medium rounded text-gray-700 bg-white hover:bg-gray-50">XLSX</a>
        </div>
    </div>

    {{template "alerts" .}}

    <form action="/" method="GET" class="bg-white shadow rounded-lg p-4 mb-6 grid grid-cols-1 gap-4 sm:grid-cols-3">
        {{range .FilterFields}}
        <div>
            <label for="{{.Key}}" class="block text-xs font-medium text-gray-700">{{.Label}}</label>
            <input id="{{.Key}}" name="{{.Key}}" type="{{if .DateTime}}datetime-local{{else}}text{{end}}"
                   value="{{$.Filter.Get .Key}}"
                   class="mt-1 block w-full border border-gray-300 rounded-md px-2 py-1 text-sm">
        </div>
        {{end}}
        <div>
            <label for="size" class="block text-xs font-medium text-gray-700">Page size</label>
            <select id="size" name="size" class="mt-1 block w-full border border-gray-300 rounded-md px-2 py-1 text-sm">
                {{range .PageSizes}}
                <option value="{{.}}" {{if eq . $.Table.PageSize}}selected{{end}}>{{.}}</option>
                {{end}}
            </select>
        </div>
        <div class="flex items-end space-x-2">
            <button type="submit" class="px-4 py-2 text-sm font-medium rounded-md text-white bg-indigo-600 hover:bg-indigo-700">Search</button>
            <a href="/" class="px-4 py-2 text-sm font-medium rounded-md text-gray-700 border border-gray-300 bg-white hover:bg-gray-50">Clear</a>
        </div>
    </form>

    <div class="bg-white shadow overflow-x-auto sm:rounded-md">
        <table class="min-w-full divide-y divide-gray-200">
            <thead class="bg-gray-50">
                <tr>
                    {{range .Table.Headers}}
                    <th class="px-3 py-2 text-left text-xs font-medium text-gray-500 uppercase">{{.}}</th>
                    {{end}}
                </tr>
            </thead>
            <tbody class="divide-y divide-gray-200">
                {{range $row := .Table.Rows}}
                <tr class="hover:bg-gray-50">
                    {{range $i, $cell := $row}}
                    {{if eq $i 0}}
                    <td class="px-3 py-2 text-sm"><a href="/records/{{$cell}}?{{pageQuery $.Query $.Table.Page}}" class="text-indigo-600 hover:text-indigo-500">{{$cell}}</a></td>
                    {{else}}
                    <td class="px-3 py-2 text-sm text-gray-700">{{truncate $cell 80}}</td>
                    {{end}}
                    {{end}}
                </tr>
                {{else}}
                <tr><td class="px-3 py-8 text-center text-gray-500" colspan="{{len .Table.Headers}}">No records found</td></tr>
                {{end}}
            </tbody>
        </table>
    </div>

    {{template "pager" .}}
</div>
{{end}}`,

	"records/detail": `{{define "content"}}
<div class="px-4 py-6 sm:px-0">
    <div class="mb-6">
        <a href="{{.Back}}" class="text-sm text-indigo-600 hover:text-indigo-500">&larr; Back to records</a>
        <h1 class="mt-2 text-2xl font-semibold text-gray-900">Record {{.Record.ID}}</h1>
    </div>
    <div class="bg-white shadow overflow-hidden sm:rounded-lg">
        <dl class="divide-y divide-gray-200">
            {{range .Record.Fields}}
            <div class="px-4 py-3 sm:grid sm:grid-cols-4 sm:gap-4">
                <dt class="text-sm font-medium text-gray-500">{{.Label}}</dt>
                <dd class="mt-1 text-sm text-gray-900 sm:mt-0 sm:col-span-3">
                    {{if eq .Key "text"}}
                    {{range multiline (printf "%v" .Value)}}<p>{{.}}</p>{{end}}
                    {{else}}{{.Value}}{{end}}
                </dd>
            </div>
            {{end}}
        </dl>
    </div>
</div>
{{end}}`,

	"charts": `{{define "content"}}
<script src="https://cdn.jsdelivr.net/npm/chart.js@4"></script>
<div class="px-4 py-6 sm:px-0">
    <h1 class="text-2xl font-semibold text-gray-900 mb-6">Charts</h1>

    {{template "alerts" .}}

    <form action="/charts" method="GET" class="bg-white shadow rounded-lg p-4 mb-6 grid grid-cols-1 gap-4 sm:grid-cols-4">
        <div>
            <label for="fromDateTime" class="block text-xs font-medium text-gray-700">From date</label>
            <input id="fromDateTime" name="fromDateTime" type="datetime-local" value="{{.Filter.FromDateTime}}"
                   class="mt-1 block w-full border border-gray-300 rounded-md px-2 py-1 text-sm">
        </div>
        <div>
            <label for="toDateTime" class="block text-xs font-medium text-gray-700">To date</label>
            <input id="toDateTime" name="toDateTime" type="datetime-local" value="{{.Filter.ToDateTime}}"
                   class="mt-1 block w-full border border-gray-300 rounded-md px-2 py-1 text-sm">
        </div>
        <div>
            <label for="classification" class="block text-xs font-medium text-gray-700">Classification</label>
            <select id="classification" name="classification" class="mt-1 block w-full border border-gray-300 rounded-md px-2 py-1 text-sm">
                <option value="">All</option>
                {{range .Classifications}}
                <option value="{{printf "%d" .}}" {{if and $.Filter.Classification (eq . (deref $.Filter.Classification))}}selected{{end}}>{{.Label}}</option>
                {{end}}
            </select>
        </div>
        <div class="flex items-end">
            <button type="submit" class="px-4 py-2 text-sm font-medium rounded-md text-white bg-indigo-600 hover:bg-indigo-700">Apply</button>
        </div>
    </form>

    <div class="grid grid-cols-1 gap-6 lg:grid-cols-2">
        <div class="bg-white shadow rounded-lg p-4">
            <h2 class="text-lg font-medium text-gray-900 mb-2">Classification ({{comma .Total}} records)</h2>
            <canvas id="countsChart"></canvas>
            <table class="mt-4 min-w-full text-sm">
                {{range .Counts}}
                <tr>
                    <td class="py-1 text-gray-700">{{.Label}}</td>
                    <td class="py-1 text-right text-gray-900">{{comma .Value}}</td>
                    <td class="py-1 text-right text-gray-500">{{percent .Value $.Total}}%</td>
                </tr>
                {{end}}
            </table>
        </div>
        <div class="bg-white shadow rounded-lg p-4">
            <h2 class="text-lg font-medium text-gray-900 mb-2">Engagement</h2>
            <canvas id="metricsChart"></canvas>
        </div>
    </div>
</div>
<script>
    const counts = {{toJSON .Counts}};
    const metrics = {{toJSON .Metrics}} || [];
    new Chart(document.getElementById('countsChart'), {
        type: 'pie',
        data: {
            labels: counts.map(c => c.label),
            datasets: [{ data: counts.map(c => c.value) }]
        }
    });
    new Chart(document.getElementById('metricsChart'), {
        type: 'line',
        data: {
            labels: metrics.map(m => m.date),
            datasets: [
                { label: 'VR', data: metrics.map(m => m.vr) },
                { label: 'ER', data: metrics.map(m => m.er) },
                { label: 'Average', data: metrics.map(m => m.average) }
            ]
        }
    });
</script>
{{end}}`,

	"users/list": `{{define "content"}}
<div class="px-4 py-6 sm:px-0">
    <div class="flex justify-between items-center mb-6">
        <h1 class="text-2xl font-semibold text-gray-900">Users</h1>
        <a href="/users/new" class="inline-flex items-center px-4 py-2 border border-transparent text-sm font-medium rounded-md shadow-sm text-white bg-indigo-600 hover:bg-indigo-700">
            Create User
        </a>
    </div>

    {{template "alerts" .}}

    <form action="/users" method="GET" class="bg-white shadow rounded-lg p-4 mb-6 grid grid-cols-1 gap-4 sm:grid-cols-4">
        <div>
            <label for="email" class="block text-xs font-medium text-gray-700">Email</label>
            <input id="email" name="email" type="text" value="{{.Filter.Email}}"
                   class="mt-1 block w-full border border-gray-300 rounded-md px-2 py-1 text-sm">
        </div>
        <div>
            <label for="role" class="block text-xs font-medium text-gray-700">Role</label>
            <select id="role" name="role" class="mt-1 block w-full border border-gray-300 rounded-md px-2 py-1 text-sm">
                <option value="">All</option>
                {{range .Roles}}
                <option value="{{printf "%d" .}}" {{if and $.Filter.Role (eq . (derefRole $.Filter.Role))}}selected{{end}}>{{.Label}}</option>
                {{end}}
            </select>
        </div>
        <div>
            <label for="size" class="block text-xs font-medium text-gray-700">Page size</label>
            <select id="size" name="size" class="mt-1 block w-full border border-gray-300 rounded-md px-2 py-1 text-sm">
                {{range .PageSizes}}
                <option value="{{.}}" {{if eq . $.Table.PageSize}}selected{{end}}>{{.}}</option>
                {{end}}
            </select>
        </div>
        <div class="flex items-end">
            <button type="submit" class="px-4 py-2 text-sm font-medium rounded-md text-white bg-indigo-600 hover:bg-indigo-700">Search</button>
        </div>
    </form>

    <div class="bg-white shadow overflow-hidden sm:rounded-md">
        <table class="min-w-full divide-y divide-gray-200">
            <thead class="bg-gray-50">
                <tr>
                    {{range .Table.Headers}}
                    <th class="px-3 py-2 text-left text-xs font-medium text-gray-500 uppercase">{{.}}</th>
                    {{end}}
                </tr>
            </thead>
            <tbody class="divide-y divide-gray-200">
                {{range $row := .Table.Rows}}
                <tr>
                    {{range $i, $cell := $row}}
                    {{if eq (index $.Table.Keys $i) "actions"}}
                    <td class="px-3 py-2 text-sm text-right">
                        <form action="{{$cell}}" method="POST" onsubmit="return confirm('Delete this user?');">
                            <button type="submit" class="inline-flex items-center px-3 py-1 border border-red-300 text-xs font-medium rounded text-red-700 bg-white hover:bg-red-50">Delete</button>
                        </form>
                    </td>
                    {{else}}
                    <td class="px-3 py-2 text-sm text-gray-700">{{$cell}}</td>
                    {{end}}
                    {{end}}
                </tr>
                {{else}}
                <tr><td class="px-3 py-8 text-center text-gray-500" colspan="{{len .Table.Headers}}">No users found</td></tr>
                {{end}}
            </tbody>
        </table>
    </div>

    {{template "pager" .}}
</div>
{{end}}`,

	"users/create": `{{define "content"}}
<div class="px-4 py-6 sm:px-0 max-w-lg">
    <h1 class="text-2xl font-semibold text-gray-900 mb-6">New user</h1>

    {{template "alerts" .}}

    <form action="/users/new" method="POST" class="bg-white shadow rounded-lg p-6 space-y-4">
        <div>
            <label for="email" class="block text-sm font-medium text-gray-700">Email</label>
            <input id="email" name="email" type="email" required value="{{.Form.Email}}"
                   class="mt-1 block w-full border border-gray-300 rounded-md px-3 py-2 text-sm">
        </div>
        <div>
            <label for="password" class="block text-sm font-medium text-gray-700">Password</label>
            <input id="password" name="password" type="password" required
                   class="mt-1 block w-full border border-gray-300 rounded-md px-3 py-2 text-sm">
        </div>
        <div>
            <label for="confirm" class="block text-sm font-medium text-gray-700">Confirm password</label>
            <input id="confirm" name="confirm" type="password" required
                   class="mt-1 block w-full border border-gray-300 rounded-md px-3 py-2 text-sm">
        </div>
        <div>
            <label for="role" class="block text-sm font-medium text-gray-700">Role</label>
            <select id="role" name="role" class="mt-1 block w-full border border-gray-300 rounded-md px-3 py-2 text-sm">
                {{range .Roles}}
                <option value="{{printf "%d" .}}" {{if eq . $.Form.Role}}selected{{end}}>{{.Label}}</option>
                {{end}}
            </select>
        </div>
        <div class="flex justify-end space-x-2">
            <a href="/users" class="px-4 py-2 text-sm font-medium rounded-md text-gray-700 border border-gray-300 bg-white hover:bg-gray-50">Cancel</a>
            <button type="submit" class="px-4 py-2 text-sm font-medium rounded-md text-white bg-indigo-600 hover:bg-indigo-700">Create</button>
        </div>
    </form>
</div>
{{end}}`,

	"upload": `{{define "content"}}
<div class="px-4 py-6 sm:px-0 max-w-lg">
    <h1 class="text-2xl font-semibold text-gray-900 mb-6">Upload records</h1>

    {{template "alerts" .}}
    {{if .File}}
    <div class="rounded-md bg-green-50 p-4 mb-4">
        <div class="text-sm text-green-700">Imported {{comma .Imported}} records from {{.File}}</div>
    </div>
    {{end}}

    <form action="/upload" method="POST" enctype="multipart/form-data" class="bg-white shadow rounded-lg p-6 space-y-4">
        <div>
            <label for="file" class="block text-sm font-medium text-gray-700">CSV file</label>
            <input id="file" name="file" type="file" accept=".csv,text/csv" required class="mt-1 block w-full text-sm">
        </div>
        <div class="flex justify-end">
            <button type="submit" class="px-4 py-2 text-sm font-medium rounded-md text-white bg-indigo-600 hover:bg-indigo-700">Upload</button>
        </div>
    </form>
</div>
{{end}}`,

	"admin": `{{define "content"}}
<div class="px-4 py-6 sm:px-0">
    <h1 class="text-2xl font-semibold text-gray-900 mb-6">Admin</h1>

    {{template "alerts" .}}
    {{with .Mark}}
    <div class="bg-white shadow rounded-lg p-4 mb-6">
        <h2 class="text-lg font-medium text-gray-900 mb-2">Marking finished</h2>
        <dl class="grid grid-cols-3 gap-4 text-sm">
            <div><dt class="text-gray-500">Marked</dt><dd class="text-gray-900">{{comma .MarkedCount}}</dd></div>
            <div><dt class="text-gray-500">No "hero" word</dt><dd class="text-gray-900">{{comma .NoHeroCount}}</dd></div>
            <div><dt class="text-gray-500">Unknown category</dt><dd class="text-gray-900">{{comma .UnknownCategoryCount}}</dd></div>
        </dl>
    </div>
    {{end}}

    <div class="grid grid-cols-1 gap-4 sm:grid-cols-3">
        <form action="/admin/mark" method="POST" class="bg-white shadow rounded-lg p-4">
            <h2 class="text-sm font-medium text-gray-900">Mark records</h2>
            <p class="mt-1 text-xs text-gray-500">Classify every unmarked record.</p>
            <button type="submit" class="mt-3 px-3 py-1 text-sm rounded-md text-white bg-indigo-600 hover:bg-indigo-700">Run</button>
        </form>
        <form action="/admin/reset-mark" method="POST" class="bg-white shadow rounded-lg p-4" onsubmit="return confirm('Reset all marks?');">
            <h2 class="text-sm font-medium text-gray-900">Reset marks</h2>
            <p class="mt-1 text-xs text-gray-500">Clear every classification.</p>
            <button type="submit" class="mt-3 px-3 py-1 text-sm rounded-md text-white bg-red-600 hover:bg-red-700">Reset</button>
        </form>
        <form action="/admin/recalculate" method="POST" class="bg-white shadow rounded-lg p-4">
            <h2 class="text-sm font-medium text-gray-900">Recalculate metrics</h2>
            <p class="mt-1 text-xs text-gray-500">Recompute VR and ER for all records.</p>
            <button type="submit" class="mt-3 px-3 py-1 text-sm rounded-md text-white bg-indigo-600 hover:bg-indigo-700">Run</button>
        </form>
    </div>
</div>
{{end}}`,
}
