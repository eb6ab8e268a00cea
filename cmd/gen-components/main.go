// Command gen-components writes a RegisterComponents function for every type
// in a package marked with an //ecs:component directive.
//
// Usage, from a go:generate line:
//
//	//go:generate go run ../cmd/gen-components -pkg render -out components_gen.go
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/plus3/gemboard/internal/logging"
	"golang.org/x/tools/go/packages"
)

func main() {
	pkgName := flag.String("pkg", "", "Expected package name; empty accepts any.")
	out := flag.String("out", "components_gen.go", "Output file, relative to -dir.")
	dir := flag.String("dir", ".", "Package directory.")
	flag.Parse()

	log := logging.For("gen-components")
	if err := logging.Setup(os.Getenv("GEMBOARD_LOG_LEVEL"), os.Stderr); err != nil {
		log.WithError(err).Fatal("invalid log level")
	}

	src, names, err := generateDir(*dir, *pkgName)
	if err != nil {
		log.WithError(err).Fatal("generate failed")
	}

	path := filepath.Join(*dir, *out)
	if err := os.WriteFile(path, src, 0o644); err != nil {
		log.WithError(err).Fatal("write failed")
	}
	log.WithField("components", len(names)).Infof("wrote %s", path)
}

// generateDir loads the package in dir and renders its registration file.
func generateDir(dir, want string) ([]byte, []string, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedSyntax,
		Dir:  dir,
	}
	pkgs, err := packages.Load(cfg, ".")
	if err != nil {
		return nil, nil, err
	}
	if len(pkgs) != 1 {
		return nil, nil, fmt.Errorf("expected one package in %s, found %d", dir, len(pkgs))
	}

	pkg := pkgs[0]
	if len(pkg.Errors) > 0 {
		return nil, nil, fmt.Errorf("load %s: %v", dir, pkg.Errors[0])
	}
	if want != "" && pkg.Name != want {
		return nil, nil, fmt.Errorf("package in %s is %q, not %q", dir, pkg.Name, want)
	}

	names := collect(pkg.Syntax)
	src, err := render(pkg.Name, names)
	return src, names, err
}
