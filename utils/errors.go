package utils

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
)

func CreateError(statusCode int, code string, message string, ctx iris.Context) {
	ctx.StopWithJSON(statusCode, iris.Map{"error": code, "message": message})
}

func CreateInternalServerError(ctx iris.Context) {
	// Never echo internal error detail to the client; it is logged at the
	// call site.
	CreateError(iris.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "something went wrong", ctx)
}

func CreateNotFound(ctx iris.Context) {
	CreateError(iris.StatusNotFound, "NOT_FOUND", "resource not found", ctx)
}

type validationError struct {
	ActualTag string `json:"tag"`
	Namespace string `json:"namespace"`
	Kind      string `json:"kind"`
	Type      string `json:"type"`
	Value     string `json:"value"`
	Param     string `json:"param"`
}

// HandleValidationErrors answers 400 with a machine-readable field list for
// validator failures, or a generic 400 for malformed bodies.
func HandleValidationErrors(err error, ctx iris.Context) {
	if errs, ok := err.(validator.ValidationErrors); ok {
		fields := make([]validationError, 0, len(errs))
		for _, e := range errs {
			fields = append(fields, validationError{
				ActualTag: e.ActualTag(),
				Namespace: e.Namespace(),
				Kind:      e.Kind().String(),
				Type:      e.Type().String(),
				Value:     fmt.Sprintf("%v", e.Value()),
				Param:     e.Param(),
			})
		}
		ctx.StopWithJSON(iris.StatusBadRequest, iris.Map{"error": "BAD_REQUEST", "fields": fields})
		return
	}
	ctx.StopWithJSON(iris.StatusBadRequest, iris.Map{"error": "BAD_REQUEST", "message": "invalid request body"})
}
