package runner

import (
	"errors"
	"fmt"
	"os"
	"time"

	v1 "github.com/infracollect/pizzacheck/apis/v1"
	"github.com/infracollect/pizzacheck/internal/engine"
)

// BuildVariables creates the variables available to ${VAR} references: the
// built-in JOB_* variables plus the allowed environment variables, all of
// which must be set.
func BuildVariables(job v1.CheckJob, allowedEnv []string) (map[string]string, error) {
	date := time.Now().UTC()
	variables := map[string]string{
		"JOB_NAME":         job.Metadata.Name,
		"JOB_DATE_ISO8601": date.Format(engine.ISO8601Basic),
		"JOB_DATE_RFC3339": date.Format(time.RFC3339),
	}

	var errs error
	for _, envName := range allowedEnv {
		val, ok := os.LookupEnv(envName)
		if !ok {
			errs = errors.Join(errs, fmt.Errorf("environment variable %q is not set", envName))
			continue
		}
		variables[envName] = val
	}

	if errs != nil {
		return nil, errs
	}

	return variables, nil
}

// ExpandJob expands ${VAR} references in the templated fields of job: target
// hosts and flags, headers and filesystem output paths.
func ExpandJob(job *v1.CheckJob, variables map[string]string) error {
	var errs error

	for i := range job.Spec.Targets {
		target := &job.Spec.Targets[i]

		host, err := Expand(target.Host, variables)
		errs = errors.Join(errs, err)
		target.Host = host

		errs = errors.Join(errs, expandPtr(target.Flag, variables))
	}

	headers, err := ExpandMap(job.Spec.Headers, variables)
	errs = errors.Join(errs, err)
	if err == nil {
		job.Spec.Headers = headers
	}

	if out := job.Spec.Output; out != nil && out.Sink != nil && out.Sink.Filesystem != nil {
		errs = errors.Join(errs,
			expandPtr(out.Sink.Filesystem.Path, variables),
			expandPtr(out.Sink.Filesystem.Prefix, variables),
		)
	}

	return errs
}

func expandPtr(value *string, variables map[string]string) error {
	if value == nil {
		return nil
	}
	expanded, err := Expand(*value, variables)
	if err != nil {
		return err
	}
	*value = expanded
	return nil
}

// Expand replaces ${VAR} references in the input string using the provided variables map.
// Returns an error if any referenced variable is not in the variables map.
func Expand(value string, variables map[string]string) (string, error) {
	var errs error

	result := os.Expand(value, func(key string) string {
		if val, ok := variables[key]; ok {
			return val
		}
		errs = errors.Join(errs, fmt.Errorf("environment variable %q is not in the allowed list", key))
		return ""
	})

	if errs != nil {
		return "", errs
	}

	return result, nil
}

// ExpandMap expands all values in a map[string]string.
func ExpandMap(values map[string]string, variables map[string]string) (map[string]string, error) {
	if values == nil {
		return nil, nil
	}

	result := make(map[string]string, len(values))
	var errs error

	for k, v := range values {
		expanded, err := Expand(v, variables)
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		result[k] = expanded
	}

	if errs != nil {
		return nil, errs
	}

	return result, nil
}
