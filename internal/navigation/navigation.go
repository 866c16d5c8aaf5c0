// Package navigation decides where a front-end path belongs and whether the student
// bottom navigation is shown on it.
package navigation

import "strings"

// Section is the area of the application a path belongs to
type Section string

const (
	SectionPublic       Section = "public"
	SectionStudent      Section = "student"
	SectionAdmin        Section = "admin"
	SectionAdminPreview Section = "admin-preview"
)

// PreviewPrefix is the path under which admins browse the student area read-only
const PreviewPrefix = "/admin/preview/student"

// HomePath is where the root path and unknown paths land
const HomePath = "/student/courses"

// legacy paths from older links that still circulate
var redirects = map[string]string{
	"/":             HomePath,
	"/dashboard":    HomePath,
	"/cursos":       HomePath,
	"/progresso":    "/student/progress",
	"/certificados": "/student/certificates",
	"/perfil":       "/student/profile",
	"/student":      HomePath,
}

// public pages served outside the student and admin areas
var publicPages = map[string]bool{
	"/login":    true,
	"/obrigado": true,
}

// Route is the outcome of resolving a path
type Route struct {
	Path       string  `json:"path"`
	Section    Section `json:"section"`
	RedirectTo string  `json:"redirectTo,omitempty"`
	ShowNav    bool    `json:"showNav"`
}

// Resolve classifies path. Redirected paths are classified by their target.
func Resolve(path string) Route {
	path = clean(path)
	route := Route{Path: path}

	if target, ok := redirects[path]; ok {
		route.RedirectTo = target
		path = target
	} else if !known(path) {
		route.RedirectTo = HomePath
		path = HomePath
	}

	route.Section = section(path)
	route.ShowNav = showNav(route.Section)
	return route
}

func section(path string) Section {
	switch {
	case hasPrefix(path, PreviewPrefix):
		return SectionAdminPreview
	case hasPrefix(path, "/admin"):
		return SectionAdmin
	case hasPrefix(path, "/student"):
		return SectionStudent
	}
	return SectionPublic
}

// known reports whether path is served by a page rather than the catch-all
func known(path string) bool {
	return publicPages[path] || hasPrefix(path, "/student") || hasPrefix(path, "/admin")
}

// showNav reports whether the student bottom navigation is shown. It never is on
// public pages or real admin pages.
func showNav(s Section) bool {
	switch s {
	case SectionAdminPreview, SectionStudent:
		return true
	}
	return false
}

// hasPrefix reports whether path is prefix itself or lies below it
func hasPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// clean drops the query, fragment and trailing slash of path
func clean(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}
	return path
}
