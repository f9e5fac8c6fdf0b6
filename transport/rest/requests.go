package rest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/Oz-CR/BattleShip-Back/internal/entity"
)

var fullNamePattern = regexp.MustCompile(`^[A-Za-zÁÉÍÓÚáéíóúÑñÜü\s]+$`)

type registerRequest struct {
	FullName string `json:"full_name" binding:"required,min=3,max=30,fullname"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=20"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type createRoomRequest struct {
	Name      string        `json:"name" binding:"required,max=100"`
	Player1ID flexibleID    `json:"player1Id"`
	Ships     entity.Layout `json:"ships"`
}

type joinRoomRequest struct {
	IDGame flexibleID    `json:"idgame" binding:"required,gt=0"`
	Ships  entity.Layout `json:"ships" binding:"required"`
}

type placementRequest struct {
	Ships entity.Layout `json:"ships" binding:"required"`
}

type shotRequest struct {
	X *int `json:"x" binding:"required"`
	Y *int `json:"y" binding:"required"`
}

type profileUpdateRequest struct {
	FullName *string `json:"fullName" binding:"omitempty,min=3,max=30,fullname"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=6,max=20"`
}

type deleteAccountRequest struct {
	Password string `json:"password" binding:"required"`
}

// flexibleID accepts both 42 and "42".
type flexibleID int64

func (that *flexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*that = 0
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(strings.TrimSpace(s))
	}

	id, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %s", data)
	}

	*that = flexibleID(id)

	return nil
}

// registerValidators teaches gin's validator the fullname rule and to report json field names.
func registerValidators() error {
	engine, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected validator engine")
	}

	engine.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return engine.RegisterValidation("fullname", func(fl validator.FieldLevel) bool {
		return fullNamePattern.MatchString(fl.Field().String())
	})
}

// fieldMessages turns binding errors into a field -> message map.
func fieldMessages(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"body": "The request body is not valid JSON for this endpoint"}
	}

	messages := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		messages[fe.Field()] = fieldMessage(fe)
	}

	return messages
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required", field)
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address", field)
	case "min":
		return fmt.Sprintf("The %s field must have at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s characters", field, fe.Param())
	case "gt":
		return fmt.Sprintf("The %s field must be greater than %s", field, fe.Param())
	case "fullname":
		return fmt.Sprintf("The %s field may only contain letters and spaces", field)
	default:
		return fmt.Sprintf("The %s field is invalid", field)
	}
}
