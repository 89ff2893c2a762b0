package user

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/ratiba/core"
)

var (
	requiredTag = "required"

	// password policy
	pwdMinLen        = 8
	pwdMinLenTag     = "pwdminlen"
	pwdNoSpaceTag    = "pwdnospace"
	pwdNotAllNumTag  = "pwdnotallnum"
	pwdComplexityTag = "pwdcplx"
	specialRegex     = regexp.MustCompile("[^A-Za-z0-9]")
	pwdMaxSim        = .7
	pwdAttrSimTag    = "pwdtoosim"

	validations = []core.Validation{
		{Tag: "role", Text: "invalid role", Func: core.StringFunc(isRole)},
		{Tag: pwdMinLenTag, Text: fmt.Sprintf("password must contain at least %d characters", pwdMinLen)},
		{Tag: pwdNoSpaceTag, Text: "password must not contain whitespace"},
		{Tag: pwdNotAllNumTag, Text: "password cannot be entirely numeric"},
		{Tag: pwdComplexityTag, Text: "password must contain at least 1 uppercase character, 1 lowercase character, 1 digit and 1 special character"},
		{Tag: pwdAttrSimTag, Text: "password cannot be similar to user attributes"},
	}
)

// InitValidators registers the user validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	core.RegisterValidations(validate, translator, validations...)
	validate.RegisterStructValidation(userStructValidation, NewUser{}, ResetUserPassword{})
}

// Custom Validators

func isRole(role string) bool {
	return RolePriority(role) > 0
}

// userStructValidation does struct level validation on NewUser and ResetUserPassword structs.
func userStructValidation(sl validator.StructLevel) {
	switch usr := sl.Current().Interface().(type) {
	case NewUser:
		// students and teachers belong to a department
		if usr.Role != RoleAdmin && usr.Department == "" {
			sl.ReportError(usr.Department, "department", "Department", requiredTag, "")
		}
		validatePassword(usr.Password, usr.Name, usr.Email, sl)
	case ResetUserPassword:
		validatePassword(usr.Password, "", "", sl)
	}
}

// validatePassword applies the password policy to provided password:
// - minLen: 8
// - no whitespace
// - no all numeric
// - complexity: 1 upper, 1 lower, 1 digit, 1 special
// - no user attrs similarity
func validatePassword(pwd, name, email string, sl validator.StructLevel) {
	if pwd == "" {
		return // reported by required
	}
	reportErr := func(tag string) {
		sl.ReportError(pwd, "password", "Password", tag, "")
	}

	var (
		digitCount         int
		hasUpper, hasLower bool
	)

	pwdLen := len(pwd)
	if pwdLen < pwdMinLen {
		reportErr(pwdMinLenTag)
		return
	}
	for _, char := range pwd {
		if unicode.IsSpace(char) {
			reportErr(pwdNoSpaceTag)
			return
		}
		if unicode.IsDigit(char) {
			digitCount++
		}
		if unicode.IsUpper(char) {
			hasUpper = true
		}
		if unicode.IsLower(char) {
			hasLower = true
		}
	}

	if digitCount == pwdLen {
		reportErr(pwdNotAllNumTag)
		return
	}

	if !(hasUpper && hasLower && digitCount > 0 && specialRegex.MatchString(pwd)) {
		reportErr(pwdComplexityTag)
		return
	}

	getRatio := func(pass, usrAttr string) float64 {
		if usrAttr == "" {
			return 0
		}
		return difflib.NewMatcher(strings.Split(pass, ""), strings.Split(usrAttr, "")).QuickRatio()
	}
	lpwd := strings.ToLower(pwd)
	if getRatio(lpwd, strings.ToLower(name)) >= pwdMaxSim || getRatio(lpwd, email) >= pwdMaxSim {
		reportErr(pwdAttrSimTag)
	}
}
