package web

import (
	"database/sql"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/erazemk/nakupi/internal/auth"
	"github.com/erazemk/nakupi/internal/catalog"
	"github.com/erazemk/nakupi/internal/model"
	webembed "github.com/erazemk/nakupi/web"
)

// Templates holds parsed HTML templates.
type Templates struct {
	templates map[string]*template.Template
}

// FuncMap returns the template function map.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"money":       formatMoney,
		"date":        formatDate,
		"statusClass": statusClass,
		"stars": func(rating *int) string {
			if rating == nil {
				return ""
			}
			return strings.Repeat("★", *rating) + strings.Repeat("☆", 5-*rating)
		},
		"pct": func(v float64) string {
			return strconv.FormatFloat(v, 'f', 1, 64)
		},
		"num": func(v float64) string {
			return strconv.FormatFloat(v, 'f', -1, 64)
		},
		"deref": func(p *int) int {
			if p == nil {
				return 0
			}
			return *p
		},
		"derefID": func(p *int64) int64 {
			if p == nil {
				return 0
			}
			return *p
		},
		"dict":        dict,
		"statuses":    func() []model.Status { return model.Statuses },
		"sortOptions": func() []catalog.SortOption { return catalog.SortOptions },
	}
}

// dict builds a map from alternating keys and values, for passing several
// values to a nested template.
func dict(kv ...any) (map[string]any, error) {
	if len(kv)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	m := make(map[string]any, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
		}
		m[key] = kv[i+1]
	}
	return m, nil
}

// formatMoney renders cents as "$1,234.56".
func formatMoney(m model.Money) string {
	s := m.String()
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + "$" + b.String() + "." + frac
}

// formatDate renders an optional date as "Mar 10, 2024", or the fallback.
func formatDate(d *time.Time, fallback string) string {
	if d == nil {
		return fallback
	}
	return d.Format("Jan 2, 2006")
}

func statusClass(s model.Status) string {
	switch s {
	case model.StatusReturned:
		return "status-returned"
	case model.StatusWishlist:
		return "status-wishlist"
	case model.StatusPreOrder:
		return "status-preorder"
	default:
		return "status-delivered"
	}
}

// LoadTemplates parses all page templates with the layout.
func LoadTemplates() (*Templates, error) {
	tfs := webembed.TemplatesFS()

	layoutBytes, err := fs.ReadFile(tfs, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("reading layout template: %w", err)
	}

	pages := []string{
		"catalog.html",
		"item_detail.html",
		"wishlist.html",
		"subscriptions.html",
		"analytics.html",
		"login.html",
		"admin.html",
		"admin_edit.html",
		"settings.html",
	}

	ts := &Templates{templates: make(map[string]*template.Template)}

	for _, page := range pages {
		pageBytes, err := fs.ReadFile(tfs, page)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", page, err)
		}

		tmpl := template.New(page).Funcs(FuncMap())
		tmpl, err = tmpl.Parse(string(layoutBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing layout for %s: %w", page, err)
		}
		tmpl, err = tmpl.Parse(string(pageBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}

		ts.templates[page] = tmpl
	}

	return ts, nil
}

// Render renders a template with the given data.
func (ts *Templates) Render(w http.ResponseWriter, name string, data any) {
	ts.RenderStatus(w, http.StatusOK, name, data)
}

// RenderStatus renders a template with an explicit status code.
func (ts *Templates) RenderStatus(w http.ResponseWriter, status int, name string, data any) {
	tmpl, ok := ts.templates[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		slog.Error("failed to render template", "template", name, "error", err)
	}
}

// PageData is the base data passed to all templates.
type PageData struct {
	Title    string
	Session  *auth.Session
	YTDSpend model.Money
	Nav      string
	Error    string
	Success  string
}

// Server holds all dependencies for page handlers.
type Server struct {
	DB            *sql.DB
	Templates     *Templates
	Verifier      *auth.Verifier
	SecureCookies bool

	// Now is the clock used for analytics and the header spend figure.
	Now func() time.Time
}
