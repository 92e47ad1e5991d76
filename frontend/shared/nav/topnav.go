package nav

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"partelog/infrastructure/rbac"
	"partelog/models"
)

// TopNavData is shared with page renderers.
type TopNavData struct {
	Username    string
	CompanyName string
	Role        string
}

func BuildTopNavData(session models.Session) TopNavData {
	return TopNavData{
		Username:    session.User.Username,
		CompanyName: session.User.Company.Name,
		Role:        session.User.Role,
	}
}

// TopNav renders the header bar with role-dependent links and the logout
// form.
func TopNav(data TopNavData) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<header class=\"topnav\"><nav>"); err != nil {
			return err
		}
		if data.Role == string(rbac.RoleAdmin) {
			if _, err := io.WriteString(w, "<a href=\"/admin\">Panel de empresa</a>"); err != nil {
				return err
			}
		} else {
			if _, err := io.WriteString(w, "<a href=\"/repartidor\">Mis partes</a>"); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w,
			"</nav><div class=\"topnav-user\"><span>%s · %s</span><form method=\"POST\" action=\"/logout\"><button type=\"submit\">Salir</button></form></div></header>",
			templ.EscapeString(data.Username), templ.EscapeString(data.CompanyName))
		return err
	})
}
