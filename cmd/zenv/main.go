package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	zenv "github.com/reoring/zenv"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	sub := os.Args[1]
	switch sub {
	case "check":
		checkCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "zenv CLI\n\nUsage:\n  zenv check [-f zenv.yaml] [-tier production|development|test] [-strict]\n\nValidates the current environment against a declarative spec file and\nreports every invalid or missing variable in one pass.")
}

func checkCmd(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	var path string
	var tierName string
	var strict bool
	fs.StringVar(&path, "f", "zenv.yaml", "spec file")
	fs.StringVar(&tierName, "tier", "", "override the APP_ENV tier signal")
	fs.BoolVar(&strict, "strict", false, "enable strict access mode on the resolved config")
	_ = fs.Parse(args)

	log := logrus.New()

	specs, sf, err := loadSpecFile(path)
	if err != nil {
		log.WithError(err).Error("cannot load spec file")
		os.Exit(2)
	}

	opt := zenv.ResolveOpt{
		Strict:             strict,
		ServerOnlyPrefixes: sf.ServerOnlyPrefixes,
		ClientSafePrefixes: sf.ClientSafePrefixes,
		Logger:             log,
	}
	if tierName != "" {
		t, ok := parseTier(tierName)
		if !ok {
			log.WithField("tier", tierName).Error("unknown tier")
			os.Exit(2)
		}
		opt.Tier = &t
	}

	cfg, err := zenv.Resolve(specs, opt)
	if err != nil {
		iss, _ := zenv.AsIssues(err)
		for _, it := range iss {
			log.WithFields(logrus.Fields{"field": it.Path, "code": it.Code}).Error(it.Message)
		}
		log.WithField("failures", len(iss)).Error("environment validation failed")
		os.Exit(1)
	}
	log.WithFields(logrus.Fields{
		"fields": len(cfg.Keys()),
		"tier":   cfg.Tier().String(),
	}).Info("environment OK")
}

func parseTier(name string) (zenv.Tier, bool) {
	switch name {
	case "production":
		return zenv.TierProduction, true
	case "development":
		return zenv.TierDevelopment, true
	case "test":
		return zenv.TierTest, true
	}
	return zenv.TierProduction, false
}
