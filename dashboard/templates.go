package dashboard

import "html/template"

var pages = template.Must(template.New("pages").Parse(`
{{define "head"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>authdeck</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 40rem; margin: 4rem auto; padding: 0 1rem; color: #1a1a2e; }
form { display: grid; gap: .75rem; max-width: 20rem; }
input { padding: .5rem; border: 1px solid #ccc; border-radius: 4px; }
button { padding: .5rem 1rem; border: 0; border-radius: 4px; background: #1a1a2e; color: #fff; cursor: pointer; }
.error { color: #b00020; }
dl { display: grid; grid-template-columns: max-content 1fr; gap: .25rem 1rem; }
dt { font-weight: 600; }
</style>
</head>
<body>{{end}}

{{define "foot"}}</body></html>{{end}}

{{define "loading"}}{{template "head" .}}
<meta http-equiv="refresh" content="1">
<p>Checking your session&hellip;</p>
{{template "foot" .}}{{end}}

{{define "login"}}{{template "head" .}}
<h1>Sign in</h1>
{{with .Error}}<p class="error">{{.}}</p>{{end}}
<form method="post" action="/login">
<input type="hidden" name="next" value="{{.Next}}">
<input type="email" name="email" placeholder="Email" required autofocus>
<input type="password" name="password" placeholder="Password" required>
<button type="submit">Log in</button>
</form>
{{template "foot" .}}{{end}}

{{define "home"}}{{template "head" .}}
<h1>Welcome, {{.Name}}</h1>
<dl>
<dt>Email</dt><dd>{{.Email}}</dd>
<dt>Role</dt><dd>{{.Role}}</dd>
{{with .Expiry}}<dt>Token expires</dt><dd>{{.}}</dd>{{end}}
</dl>
<form method="post" action="/logout"><button type="submit">Log out</button></form>
{{template "foot" .}}{{end}}
`))
