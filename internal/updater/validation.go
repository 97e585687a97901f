package updater

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/temirov/zfs-updater/internal/branches"
	"github.com/temirov/zfs-updater/internal/gitrepo"
)

var loadConfigurationValidator = sync.OnceValues(newConfigurationValidator)

func newConfigurationValidator() (*validator.Validate, error) {
	configurationValidator := validator.New(validator.WithRequiredStructEnabled())
	configurationValidator.RegisterTagNameFunc(mapstructureFieldName)

	if registrationError := configurationValidator.RegisterValidation(gitRepositoryURLValidationTagConstant, isGitRepositoryURL); registrationError != nil {
		return nil, registrationError
	}
	if registrationError := configurationValidator.RegisterValidation(branchOrderingValidationTagConstant, isSupportedBranchOrdering); registrationError != nil {
		return nil, registrationError
	}
	return configurationValidator, nil
}

func mapstructureFieldName(field reflect.StructField) string {
	tagValue := strings.SplitN(field.Tag.Get(mapstructureTagNameConstant), ",", 2)[0]
	if len(tagValue) == 0 {
		return field.Name
	}
	return tagValue
}

func isGitRepositoryURL(fieldLevel validator.FieldLevel) bool {
	_, parseError := gitrepo.ParseRepositoryURL(fieldLevel.Field().String())
	return parseError == nil
}

func isSupportedBranchOrdering(fieldLevel validator.FieldLevel) bool {
	_, orderingError := branches.ParseOrdering(fieldLevel.Field().String())
	return orderingError == nil
}

func describeFieldError(fieldError validator.FieldError) error {
	fieldName := fieldError.Field()
	switch fieldError.Tag() {
	case requiredValidationTagConstant:
		return fmt.Errorf(missingValueTemplateConstant, fieldName)
	case urlValidationTagConstant:
		return fmt.Errorf(invalidURLTemplateConstant, fieldName, fieldError.Value())
	case minimumValidationTagConstant, greaterThanValidationTagConstant:
		return fmt.Errorf(nonPositiveValueTemplateConstant, fieldName, fieldError.Value())
	case gitRepositoryURLValidationTagConstant:
		_, parseError := gitrepo.ParseRepositoryURL(fmt.Sprint(fieldError.Value()))
		return fmt.Errorf(invalidRepositoryURLTemplateConstant, fieldName, parseError)
	case branchOrderingValidationTagConstant:
		_, orderingError := branches.ParseOrdering(fmt.Sprint(fieldError.Value()))
		return fmt.Errorf(invalidOrderingTemplateConstant, fieldName, orderingError)
	default:
		return fmt.Errorf(genericValidationTemplateConstant, fieldName, fieldError.Tag())
	}
}
