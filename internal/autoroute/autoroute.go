package autoroute

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"ragbridge/internal/transport/http/middleware"
)

// Descriptor is the content of one route definition file. The route's path
// and HTTP method come from the file name: <seg>[.<seg>...].<method>.yaml
// maps to /<seg>/... and the named method. A descriptor may override the
// derived path but not the method.
type Descriptor struct {
	Path     string            `yaml:"path"`
	Auth     bool              `yaml:"auth"`
	Status   int               `yaml:"status" validate:"omitempty,gte=100,lt=600"`
	Headers  map[string]string `yaml:"headers"`
	Response interface{}       `yaml:"response"`
}

type Options struct {
	// JWTSecret guards descriptors with the auth flag. Loading an
	// auth-flagged route without a secret is a startup error.
	JWTSecret string
}

var methods = map[string]string{
	"get":    http.MethodGet,
	"post":   http.MethodPost,
	"put":    http.MethodPut,
	"patch":  http.MethodPatch,
	"delete": http.MethodDelete,
}

var validate = validator.New()

// Register loads every route definition file in dir and registers one
// handler per file. Any unreadable, misnamed or invalid file aborts
// registration; a partially routed application must not start serving.
func Register(router gin.IRouter, dir string, opts Options) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read routes dir failed: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		path, method, err := parseName(entry.Name())
		if err != nil {
			return err
		}

		desc, err := loadDescriptor(filepath.Join(dir, entry.Name()))
		if err != nil {
			return err
		}
		if desc.Path != "" {
			path = desc.Path
		}

		handlers := make([]gin.HandlerFunc, 0, 2)
		if desc.Auth {
			if opts.JWTSecret == "" {
				return fmt.Errorf("route file %s requires auth but no jwt secret is configured", entry.Name())
			}
			handlers = append(handlers, middleware.AuthJWT(opts.JWTSecret))
		}
		handlers = append(handlers, handlerFor(desc))

		router.Handle(method, path, handlers...)
	}
	return nil
}

func parseName(name string) (path, method string, err error) {
	ext := filepath.Ext(name)
	if ext != ".yaml" && ext != ".yml" {
		return "", "", fmt.Errorf("route file %s is not a yaml descriptor", name)
	}

	segments := strings.Split(strings.TrimSuffix(name, ext), ".")
	if len(segments) < 2 {
		return "", "", fmt.Errorf("route file %s does not follow <path>.<method>%s", name, ext)
	}

	method, ok := methods[segments[len(segments)-1]]
	if !ok {
		return "", "", fmt.Errorf("route file %s has unknown method %q", name, segments[len(segments)-1])
	}

	return "/" + strings.Join(segments[:len(segments)-1], "/"), method, nil
}

func loadDescriptor(path string) (*Descriptor, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read route file %s failed: %w", path, err)
	}

	desc := &Descriptor{Status: http.StatusOK}
	if err := yaml.Unmarshal(raw, desc); err != nil {
		return nil, fmt.Errorf("decode route file %s failed: %w", path, err)
	}
	if err := validate.Struct(desc); err != nil {
		return nil, fmt.Errorf("invalid route file %s: %w", path, err)
	}
	return desc, nil
}

func handlerFor(desc *Descriptor) gin.HandlerFunc {
	return func(c *gin.Context) {
		for k, v := range desc.Headers {
			c.Header(k, v)
		}
		if desc.Response == nil {
			c.Status(desc.Status)
			return
		}
		c.JSON(desc.Status, desc.Response)
	}
}
