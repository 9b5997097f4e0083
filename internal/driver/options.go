package driver

import (
	"fmt"
	"strings"

	"ppfront/internal/include"
	"ppfront/internal/pipeline"
	"ppfront/internal/preproc"
	"ppfront/internal/source"
)

// Options configure how one translation unit is processed.
type Options struct {
	Plan           pipeline.Plan
	Include        []string
	SystemInclude  []string
	Predefined     []preproc.Define
	InputCharset   string
	MaxDiagnostics int
	// MaxIncludeDepth <= 0 means include.MaxDepth.
	MaxIncludeDepth int
	// Resolver overrides the filesystem search built from Include/SystemInclude.
	Resolver include.Resolver
	// Cache is optional; nil disables the disk cache.
	Cache *DiskCache
}

func (o *Options) plan() pipeline.Plan {
	if len(o.Plan) == 0 {
		return pipeline.DefaultPlan()
	}
	return o.Plan
}

func (o *Options) resolver() include.Resolver {
	if o.Resolver != nil {
		return o.Resolver
	}
	return &include.FSResolver{Include: o.Include, System: o.SystemInclude}
}

func (o *Options) charset() (*source.Charset, error) {
	return source.LookupCharset(o.InputCharset)
}

// fingerprint identifies every option that changes the output of a unit.
func (o *Options) fingerprint() Digest {
	var sb strings.Builder
	fmt.Fprintf(&sb, "plan=%s\n", strings.Join(o.plan().Strings(), ","))
	fmt.Fprintf(&sb, "include=%s\n", strings.Join(o.Include, "\x00"))
	fmt.Fprintf(&sb, "system=%s\n", strings.Join(o.SystemInclude, "\x00"))
	for _, d := range o.Predefined {
		fmt.Fprintf(&sb, "define=%s=%s/%v\n", d.Name, d.Value, d.Undef)
	}
	fmt.Fprintf(&sb, "charset=%s\n", strings.ToLower(strings.TrimSpace(o.InputCharset)))
	fmt.Fprintf(&sb, "limits=%d/%d\n", o.MaxDiagnostics, o.MaxIncludeDepth)
	return hashString(sb.String())
}
