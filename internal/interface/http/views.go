package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gestorly/catalog-api/internal/application"
	"github.com/gestorly/catalog-api/internal/domain/entity"
	"github.com/gestorly/catalog-api/pkg/response"
)

type userView struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	CreatedAt string `json:"created_at"`
}

type optionView struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ProductID int64  `json:"product_id"`
	Active    bool   `json:"active"`
	Version   int64  `json:"version"`
}

type productView struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	Stock        int          `json:"stock"`
	Active       bool         `json:"active"`
	SupplierName string       `json:"supplier_name,omitempty"`
	Options      []optionView `json:"options"`
}

func toUserView(u *entity.User) userView {
	return userView{
		ID:        u.ID,
		Username:  u.Username,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
		CreatedAt: u.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

func toOptionView(o *entity.Option) optionView {
	return optionView{ID: o.ID, Name: o.Name, ProductID: o.ProductID, Active: o.Active, Version: o.Version}
}

func toProductViews(products []entity.Product) []productView {
	out := make([]productView, 0, len(products))
	for i := range products {
		p := &products[i]
		options := make([]optionView, 0, len(p.Options))
		for j := range p.Options {
			options = append(options, toOptionView(&p.Options[j]))
		}
		out = append(out, productView{
			ID:           p.ID,
			Name:         p.Name,
			Stock:        p.Stock,
			Active:       p.Active,
			SupplierName: p.SupplierName,
			Options:      options,
		})
	}
	return out
}

// serviceError maps the application error taxonomy onto HTTP statuses.
// Infrastructure details stay in the logs. The client only sees the
// generic messages the services chose.
func serviceError(c *gin.Context, err error) {
	var ve *application.ValidationError
	var ce *application.ConflictError
	var oe *application.OperationFailedError
	switch {
	case errors.As(err, &ve):
		response.Error(c, http.StatusBadRequest, "invalid input", ve.Violations)
	case errors.As(err, &ce):
		response.Error(c, http.StatusConflict, ce.Message, map[string]string{ce.Field: ce.Message})
	case errors.As(err, &oe):
		response.Error(c, http.StatusInternalServerError, oe.Message, nil)
	default:
		response.Error(c, http.StatusInternalServerError, "something went wrong, try again later", nil)
	}
}
