package handler

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"mesto-api/internal/apperror"
	"mesto-api/internal/auth"
	"mesto-api/internal/model"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterValidations installs the model rules (httpurl) on gin's binding
// validator.
func RegisterValidations() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("unexpected binding validator engine")
			return
		}
		registerErr = model.RegisterValidations(v)
	})
	return registerErr
}

// bindJSON decodes the body into req. Failures become BadRequest naming the
// first offending field.
func bindJSON(c *gin.Context, req any) error {
	if err := c.ShouldBindJSON(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			field := jsonFieldName(verrs[0])
			return apperror.NewBadRequest(fmt.Sprintf("Invalid value for field %s", field), err)
		}
		return apperror.NewBadRequest("Invalid request body", err)
	}
	return nil
}

func jsonFieldName(fe validator.FieldError) string {
	// Field() is the struct field name; request structs name fields after
	// their json keys.
	name := fe.Field()
	if name == "" {
		return "body"
	}
	return strings.ToLower(name[:1]) + name[1:]
}

func identityFromContext(c *gin.Context) (auth.Identity, bool) {
	return auth.IdentityFrom(c.Request.Context())
}

// fail hands err to the error middleware.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

func requireIdentity(c *gin.Context) (auth.Identity, bool) {
	identity, ok := identityFromContext(c)
	if !ok {
		fail(c, apperror.NewUnauthorized("Authorization required", nil))
	}
	return identity, ok
}
