// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-abi library.

package codegen

import (
	"embed"
	"strings"
	"sync"
	"text/template"
)

var (
	//go:embed tmpl/*.tmpl
	Files embed.FS
)

var templateCache = make(map[string]*template.Template)
var templateCacheMux = &sync.RWMutex{}
var templateFuncs = template.FuncMap{
	"indent": func(s string, tabs int) string {
		return indentStr(s, tabs)
	},
	"trim": strings.TrimSpace,
}

// GetTemplate returns the parsed template set for the given files, parsing it on first use.
func GetTemplate(files ...string) *template.Template {
	name := strings.Join(files, "-")

	templateCacheMux.RLock()
	if cached := templateCache[name]; cached != nil {
		templateCacheMux.RUnlock()
		return cached
	}
	templateCacheMux.RUnlock()

	tmpl := template.Must(template.New(name).Funcs(templateFuncs).ParseFS(Files, files...))

	templateCacheMux.Lock()
	defer templateCacheMux.Unlock()
	templateCache[name] = tmpl
	return tmpl
}

// renderTemplate executes a named template definition from the given file.
func renderTemplate(file, define string, data any) (string, error) {
	codeBuf := strings.Builder{}
	if err := GetTemplate(file).ExecuteTemplate(&codeBuf, define, data); err != nil {
		return "", err
	}
	return codeBuf.String(), nil
}
