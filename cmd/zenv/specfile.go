package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	zenv "github.com/reoring/zenv"
	"github.com/reoring/zenv/dsl"
)

// specFile is the declarative form of a field spec set.
//
//	vars:
//	  PORT:          {type: port, default: "3000", expose: true}
//	  LOG_LEVEL:     {type: enum, choices: [debug, info, warn], default: info}
//	  DATABASE_URL:  {type: url}
//	serverOnlyPrefixes: [SECRET_]
//	clientSafePrefixes: [PUBLIC_]
type specFile struct {
	Vars               yaml.Node `yaml:"vars"`
	ServerOnlyPrefixes []string  `yaml:"serverOnlyPrefixes"`
	ClientSafePrefixes []string  `yaml:"clientSafePrefixes"`
}

type varSpec struct {
	Type        string   `yaml:"type"`
	Default     *string  `yaml:"default"`
	DevDefault  *string  `yaml:"devDefault"`
	TestDefault *string  `yaml:"testDefault"`
	Optional    bool     `yaml:"optional"`
	Choices     []string `yaml:"choices"`
	Min         *float64 `yaml:"min"`
	Max         *float64 `yaml:"max"`
	Pattern     string   `yaml:"pattern"`
	Expose      *bool    `yaml:"expose"`
	Desc        string   `yaml:"desc"`
	Example     string   `yaml:"example"`
}

// loadSpecFile reads and compiles a YAML spec. Field order in the file is
// preserved, which is why vars decodes through yaml.Node instead of a map.
func loadSpecFile(path string) (zenv.FieldSpecs, *specFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	var sf specFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if sf.Vars.Kind == 0 {
		return nil, nil, fmt.Errorf("%s: missing vars section", path)
	}
	if sf.Vars.Kind != yaml.MappingNode {
		return nil, nil, fmt.Errorf("%s: vars must be a mapping", path)
	}
	specs := make(zenv.FieldSpecs, 0, len(sf.Vars.Content)/2)
	for i := 0; i+1 < len(sf.Vars.Content); i += 2 {
		name := sf.Vars.Content[i].Value
		var vs varSpec
		if err := sf.Vars.Content[i+1].Decode(&vs); err != nil {
			return nil, nil, fmt.Errorf("%s: var %s: %w", path, name, err)
		}
		v, err := compileVar(name, vs)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: var %s: %w", path, name, err)
		}
		specs = append(specs, zenv.Field(name, v))
	}
	return specs, &sf, nil
}

// compileVar maps one declarative entry onto a dsl builder.
func compileVar(name string, vs varSpec) (zenv.Validator, error) {
	switch vs.Type {
	case "", "string":
		b := dsl.Str()
		if vs.Min != nil {
			b = b.MinLen(int(*vs.Min))
		}
		if vs.Max != nil {
			b = b.MaxLen(int(*vs.Max))
		}
		if vs.Pattern != "" {
			b = b.Match(vs.Pattern)
		}
		return finishStr(b, vs)
	case "email":
		return finishStr(dsl.Email(), vs)
	case "url":
		return finishStr(dsl.URL(), vs)
	case "uuid":
		return finishStr(dsl.UUID(), vs)
	case "host":
		return finishStr(dsl.Host(), vs)
	case "enum":
		if len(vs.Choices) == 0 {
			return nil, fmt.Errorf("enum requires choices")
		}
		return finishStr(dsl.Str().Choices(vs.Choices...), vs)
	case "int", "port":
		var b *dsl.IntBuilder
		if vs.Type == "port" {
			b = dsl.Port()
		} else {
			b = dsl.Int()
			if vs.Min != nil {
				b = b.Min(int(*vs.Min))
			}
			if vs.Max != nil {
				b = b.Max(int(*vs.Max))
			}
		}
		return finishInt(b, vs)
	case "num", "float":
		b := dsl.Num()
		if vs.Min != nil {
			b = b.Min(*vs.Min)
		}
		if vs.Max != nil {
			b = b.Max(*vs.Max)
		}
		return finishNum(b, vs)
	case "bool":
		return finishBool(dsl.Bool(), vs)
	case "duration":
		return finishDuration(dsl.Duration(), vs)
	case "json":
		return finishJSON(dsl.JSON(), vs)
	}
	return nil, fmt.Errorf("unknown type %q", vs.Type)
}

func finishStr(b *dsl.StrBuilder, vs varSpec) (zenv.Validator, error) {
	if vs.Default != nil {
		b = b.Default(*vs.Default)
	}
	if vs.DevDefault != nil {
		b = b.DevDefault(*vs.DevDefault)
	}
	if vs.TestDefault != nil {
		b = b.TestDefault(*vs.TestDefault)
	}
	if vs.Optional {
		b = b.Optional()
	}
	if vs.Desc != "" {
		b = b.Desc(vs.Desc)
	}
	if vs.Example != "" {
		b = b.Example(vs.Example)
	}
	if vs.Expose != nil {
		if *vs.Expose {
			b = b.Expose()
		} else {
			b = b.NoExpose()
		}
	}
	return b, nil
}

func finishInt(b *dsl.IntBuilder, vs varSpec) (zenv.Validator, error) {
	set := func(s string, apply func(int) *dsl.IntBuilder) error {
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("default %q is not an integer", s)
		}
		b = apply(n)
		return nil
	}
	if vs.Default != nil {
		if err := set(*vs.Default, b.Default); err != nil {
			return nil, err
		}
	}
	if vs.DevDefault != nil {
		if err := set(*vs.DevDefault, b.DevDefault); err != nil {
			return nil, err
		}
	}
	if vs.TestDefault != nil {
		if err := set(*vs.TestDefault, b.TestDefault); err != nil {
			return nil, err
		}
	}
	if vs.Optional {
		b = b.Optional()
	}
	if vs.Desc != "" {
		b = b.Desc(vs.Desc)
	}
	if vs.Example != "" {
		b = b.Example(vs.Example)
	}
	if vs.Expose != nil {
		if *vs.Expose {
			b = b.Expose()
		} else {
			b = b.NoExpose()
		}
	}
	return b, nil
}

func finishNum(b *dsl.NumBuilder, vs varSpec) (zenv.Validator, error) {
	set := func(s string, apply func(float64) *dsl.NumBuilder) error {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("default %q is not a number", s)
		}
		b = apply(f)
		return nil
	}
	if vs.Default != nil {
		if err := set(*vs.Default, b.Default); err != nil {
			return nil, err
		}
	}
	if vs.DevDefault != nil {
		if err := set(*vs.DevDefault, b.DevDefault); err != nil {
			return nil, err
		}
	}
	if vs.TestDefault != nil {
		if err := set(*vs.TestDefault, b.TestDefault); err != nil {
			return nil, err
		}
	}
	if vs.Optional {
		b = b.Optional()
	}
	if vs.Expose != nil {
		if *vs.Expose {
			b = b.Expose()
		} else {
			b = b.NoExpose()
		}
	}
	return b, nil
}

func finishBool(b *dsl.BoolBuilder, vs varSpec) (zenv.Validator, error) {
	set := func(s string, apply func(bool) *dsl.BoolBuilder) error {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return fmt.Errorf("default %q is not a bool", s)
		}
		b = apply(v)
		return nil
	}
	if vs.Default != nil {
		if err := set(*vs.Default, b.Default); err != nil {
			return nil, err
		}
	}
	if vs.DevDefault != nil {
		if err := set(*vs.DevDefault, b.DevDefault); err != nil {
			return nil, err
		}
	}
	if vs.TestDefault != nil {
		if err := set(*vs.TestDefault, b.TestDefault); err != nil {
			return nil, err
		}
	}
	if vs.Optional {
		b = b.Optional()
	}
	if vs.Expose != nil {
		if *vs.Expose {
			b = b.Expose()
		} else {
			b = b.NoExpose()
		}
	}
	return b, nil
}

func finishDuration(b *dsl.DurationBuilder, vs varSpec) (zenv.Validator, error) {
	set := func(s string, apply func(time.Duration) *dsl.DurationBuilder) error {
		d, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("default %q is not a duration", s)
		}
		b = apply(d)
		return nil
	}
	if vs.Default != nil {
		if err := set(*vs.Default, b.Default); err != nil {
			return nil, err
		}
	}
	if vs.DevDefault != nil {
		if err := set(*vs.DevDefault, b.DevDefault); err != nil {
			return nil, err
		}
	}
	if vs.TestDefault != nil {
		if err := set(*vs.TestDefault, b.TestDefault); err != nil {
			return nil, err
		}
	}
	if vs.Optional {
		b = b.Optional()
	}
	if vs.Min != nil {
		b = b.Min(time.Duration(*vs.Min * float64(time.Second)))
	}
	if vs.Max != nil {
		b = b.Max(time.Duration(*vs.Max * float64(time.Second)))
	}
	return b, nil
}

func finishJSON(b *dsl.JSONBuilder, vs varSpec) (zenv.Validator, error) {
	set := func(s string, apply func(any) *dsl.JSONBuilder) error {
		var v any
		if err := json.Unmarshal([]byte(s), &v); err != nil {
			return fmt.Errorf("default is not valid JSON: %w", err)
		}
		b = apply(v)
		return nil
	}
	if vs.Default != nil {
		if err := set(*vs.Default, b.Default); err != nil {
			return nil, err
		}
	}
	if vs.DevDefault != nil {
		if err := set(*vs.DevDefault, b.DevDefault); err != nil {
			return nil, err
		}
	}
	if vs.TestDefault != nil {
		if err := set(*vs.TestDefault, b.TestDefault); err != nil {
			return nil, err
		}
	}
	if vs.Optional {
		b = b.Optional()
	}
	if vs.Expose != nil {
		if *vs.Expose {
			b = b.Expose()
		} else {
			b = b.NoExpose()
		}
	}
	return b, nil
}
