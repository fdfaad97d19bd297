package zenv_test

import (
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	zenv "github.com/reoring/zenv"
	"github.com/reoring/zenv/dsl"
)

func clientCtx(on bool) func() bool { return func() bool { return on } }

func TestConfig_SecureByDefaultOnClient(t *testing.T) {
	specs := zenv.FieldSpecs{
		zenv.Field("SECRET", dsl.Str()),
	}
	cfg, err := zenv.Resolve(specs, zenv.ResolveOpt{
		Source:   zenv.MapSource{"SECRET": "hunter2"},
		IsClient: clientCtx(true),
	})
	require.NoError(t, err)

	// no client config at all: field is server-only, default policy returns nil
	v, err := cfg.Get("SECRET")
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestConfig_AccessFailNamesTheField(t *testing.T) {
	specs := zenv.FieldSpecs{
		zenv.Field("SECRET", dsl.Str()),
	}
	cfg, err := zenv.Resolve(specs, zenv.ResolveOpt{
		Source:         zenv.MapSource{"SECRET": "hunter2"},
		IsClient:       clientCtx(true),
		OnClientAccess: zenv.AccessFail,
	})
	require.NoError(t, err)

	_, err = cfg.Get("SECRET")
	ae, ok := zenv.AsAccessError(err)
	require.True(t, ok, "expected AccessError, got %v", err)
	require.Equal(t, "SECRET", ae.Field)
	require.Equal(t, zenv.CodeServerOnly, ae.Code)
}

func TestConfig_ServerAlwaysSeesTrueValues(t *testing.T) {
	specs := zenv.FieldSpecs{
		zenv.Field("SECRET", dsl.Str()),
	}
	cfg, err := zenv.Resolve(specs, zenv.ResolveOpt{
		Source:   zenv.MapSource{"SECRET": "hunter2"},
		IsClient: clientCtx(false),
	})
	require.NoError(t, err)

	v, err := cfg.Get("SECRET")
	require.NoError(t, err)
	require.Equal(t, "hunter2", v)
}

func TestConfig_ExposeOptIn(t *testing.T) {
	specs := zenv.FieldSpecs{
		zenv.Field("API_HOST", dsl.Str().Expose()),
	}
	cfg, err := zenv.Resolve(specs, zenv.ResolveOpt{
		Source:   zenv.MapSource{"API_HOST": "api.example.com"},
		IsClient: clientCtx(true),
	})
	require.NoError(t, err)

	v, err := cfg.Get("API_HOST")
	require.NoError(t, err)
	require.Equal(t, "api.example.com", v)
}

func TestConfig_ServerOnlyPrefixBeatsExplicitExpose(t *testing.T) {
	specs := zenv.FieldSpecs{
		zenv.Field("SECRET_TOKEN", dsl.Str().Expose()),
	}
	cfg, err := zenv.Resolve(specs, zenv.ResolveOpt{
		Source:             zenv.MapSource{"SECRET_TOKEN": "t"},
		IsClient:           clientCtx(true),
		ServerOnlyPrefixes: []string{"SECRET_"},
	})
	require.NoError(t, err)

	v, err := cfg.Get("SECRET_TOKEN")
	require.NoError(t, err)
	require.Nil(t, v, "prefix-forced server-only must win over explicit expose")
}

func TestConfig_ClientSafePrefixAutoExposes(t *testing.T) {
	specs := zenv.FieldSpecs{
		zenv.Field("PUBLIC_URL", dsl.Str()),
		zenv.Field("PUBLIC_OPTED_OUT", dsl.Str().NoExpose()),
	}
	cfg, err := zenv.Resolve(specs, zenv.ResolveOpt{
		Source:             zenv.MapSource{"PUBLIC_URL": "https://x", "PUBLIC_OPTED_OUT": "hide"},
		IsClient:           clientCtx(true),
		ClientSafePrefixes: []string{"PUBLIC_"},
	})
	require.NoError(t, err)

	v, err := cfg.Get("PUBLIC_URL")
	require.NoError(t, err)
	require.Equal(t, "https://x", v)

	// explicit per-field configuration wins over prefix inference
	v, err = cfg.Get("PUBLIC_OPTED_OUT")
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestConfig_ClientTransformAndDefaults(t *testing.T) {
	specs := zenv.FieldSpecs{
		zenv.Field("WS_URL", dsl.Str().Expose().ClientTransform(func(v any) any {
			return "wss://" + v.(string)
		})),
		zenv.Field("CDN_URL", dsl.Str().Optional().Expose().ClientDefault("https://cdn.example.com")),
	}
	cfg, err := zenv.Resolve(specs, zenv.ResolveOpt{
		Source:   zenv.MapSource{"WS_URL": "host:9000"},
		IsClient: clientCtx(true),
	})
	require.NoError(t, err)

	v, err := cfg.Get("WS_URL")
	require.NoError(t, err)
	require.Equal(t, "wss://host:9000", v)

	// client default applies only in the exposed, absent-value case
	v, err = cfg.Get("CDN_URL")
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example.com", v)
}

func TestConfig_ClientDefaultBeatsServerDefault(t *testing.T) {
	onClient := false
	specs := zenv.FieldSpecs{
		zenv.Field("API_URL", dsl.Str().Default("https://internal").Expose().ClientDefault("https://public")),
	}
	cfg, err := zenv.Resolve(specs, zenv.ResolveOpt{
		Source:   zenv.MapSource{},
		IsClient: func() bool { return onClient },
	})
	require.NoError(t, err)

	// the server sees its own substituted default
	v, err := cfg.Get("API_URL")
	require.NoError(t, err)
	require.Equal(t, "https://internal", v)

	// the client default wins over the substituted server default
	onClient = true
	v, err = cfg.Get("API_URL")
	require.NoError(t, err)
	require.Equal(t, "https://public", v)

	// a present raw value is never displaced by the client default
	cfg, err = zenv.Resolve(specs, zenv.ResolveOpt{
		Source:   zenv.MapSource{"API_URL": "https://set.example.com"},
		IsClient: func() bool { return true },
	})
	require.NoError(t, err)
	v, err = cfg.Get("API_URL")
	require.NoError(t, err)
	require.Equal(t, "https://set.example.com", v)
}

func TestConfig_ClientDevDefaultByTier(t *testing.T) {
	specs := zenv.FieldSpecs{
		zenv.Field("CDN_URL", dsl.Str().Optional().Expose().
			ClientDefault("https://cdn.example.com").
			ClientDevDefault("http://localhost:8080")),
	}
	for _, tc := range []struct {
		tier zenv.Tier
		want string
	}{
		{zenv.TierDevelopment, "http://localhost:8080"},
		{zenv.TierProduction, "https://cdn.example.com"},
		{zenv.TierTest, "https://cdn.example.com"},
	} {
		tier := tc.tier
		cfg, err := zenv.Resolve(specs, zenv.ResolveOpt{
			Source:   zenv.MapSource{},
			Tier:     &tier,
			IsClient: clientCtx(true),
		})
		require.NoError(t, err)
		v, err := cfg.Get("CDN_URL")
		require.NoError(t, err)
		require.Equal(t, tc.want, v, "tier %v", tc.tier)
	}
}

func TestConfig_AccessWarnLogsPerRead(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	specs := zenv.FieldSpecs{
		zenv.Field("SECRET", dsl.Str()),
	}
	cfg, err := zenv.Resolve(specs, zenv.ResolveOpt{
		Source:   zenv.MapSource{"SECRET": "s"},
		IsClient: clientCtx(true),
		Logger:   logger,
	})
	require.NoError(t, err)

	v, err := cfg.Get("SECRET")
	require.NoError(t, err)
	require.Nil(t, v)

	entry := hook.LastEntry()
	require.NotNil(t, entry, "warn mode must log the denied read")
	require.Equal(t, logrus.WarnLevel, entry.Level)
	require.Equal(t, "SECRET", entry.Data["field"])

	// one entry per access
	hook.Reset()
	_, _ = cfg.Get("SECRET")
	_, _ = cfg.Get("SECRET")
	require.Len(t, hook.AllEntries(), 2)
}

func TestConfig_RuntimeContextConsultedPerRead(t *testing.T) {
	onClient := false
	specs := zenv.FieldSpecs{
		zenv.Field("SECRET", dsl.Str()),
	}
	cfg, err := zenv.Resolve(specs, zenv.ResolveOpt{
		Source:   zenv.MapSource{"SECRET": "s"},
		IsClient: func() bool { return onClient },
	})
	require.NoError(t, err)

	v, _ := cfg.Get("SECRET")
	require.Equal(t, "s", v)

	// flip mid-process, as during SSR followed by hydration
	onClient = true
	v, _ = cfg.Get("SECRET")
	require.Nil(t, v)
}

func TestConfig_StrictRejectsUndeclaredKeys(t *testing.T) {
	specs := zenv.FieldSpecs{
		zenv.Field("PORT", dsl.Port().Default(3000)),
	}
	cfg, err := zenv.Resolve(specs, zenv.ResolveOpt{Source: zenv.MapSource{}, Strict: true})
	require.NoError(t, err)

	_, err = cfg.Get("PROT") // typo
	ae, ok := zenv.AsAccessError(err)
	require.True(t, ok)
	require.Equal(t, zenv.CodeNotFound, ae.Code)

	// declared field still reads normally
	v, err := cfg.Get("PORT")
	require.NoError(t, err)
	require.Equal(t, 3000, v)
}

func TestConfig_MutationAlwaysRejected(t *testing.T) {
	specs := zenv.FieldSpecs{
		zenv.Field("PORT", dsl.Port().Default(3000)),
	}
	cfg, err := zenv.Resolve(specs, zenv.ResolveOpt{Source: zenv.MapSource{}})
	require.NoError(t, err)

	for _, name := range []string{"PORT", "NEVER_DECLARED"} {
		err := cfg.Set(name, 1)
		ae, ok := zenv.AsAccessError(err)
		require.True(t, ok, "set %s", name)
		require.Equal(t, zenv.CodeImmutable, ae.Code)
	}

	// deletes are rejected like writes
	err = cfg.Delete("PORT")
	ae, ok := zenv.AsAccessError(err)
	require.True(t, ok)
	require.Equal(t, zenv.CodeImmutable, ae.Code)

	// and the value is untouched
	v, _ := cfg.Get("PORT")
	require.Equal(t, 3000, v)
}

func TestConfig_KeysDeclarationOrderAndStability(t *testing.T) {
	specs := zenv.FieldSpecs{
		zenv.Field("ZULU", dsl.Str().Default("z")),
		zenv.Field("ALPHA", dsl.Str().Default("a")),
		zenv.Field("MIKE", dsl.Str().Default("m")),
	}
	cfg, err := zenv.Resolve(specs, zenv.ResolveOpt{Source: zenv.MapSource{}})
	require.NoError(t, err)

	want := []string{"ZULU", "ALPHA", "MIKE"}
	require.Equal(t, want, cfg.Keys())
	// repeated calls are side-effect free
	require.Equal(t, want, cfg.Keys())

	m := cfg.Map()
	require.Len(t, m, 3)
	require.Equal(t, "z", m["ZULU"])
}

func TestConfig_TierFlagsComputedNotEnumerated(t *testing.T) {
	tier := zenv.TierDevelopment
	cfg, err := zenv.Resolve(zenv.FieldSpecs{
		zenv.Field("X", dsl.Str().Default("x")),
	}, zenv.ResolveOpt{Source: zenv.MapSource{}, Tier: &tier})
	require.NoError(t, err)

	require.True(t, cfg.IsDevelopment())
	require.True(t, cfg.IsDev())
	require.False(t, cfg.IsProduction())
	require.False(t, cfg.IsProd())
	require.False(t, cfg.IsTest())

	// generic lookup path agrees, even under strict mode
	v, err := cfg.Get("isDev")
	require.NoError(t, err)
	require.Equal(t, true, v)

	require.Equal(t, []string{"X"}, cfg.Keys(), "derived flags never enumerate")
}

func TestConfig_ClientSnapshotAndPrefixAccessor(t *testing.T) {
	specs := zenv.FieldSpecs{
		zenv.Field("PUBLIC_API", dsl.Str()),
		zenv.Field("SECRET", dsl.Str()),
	}
	cfg, err := zenv.Resolve(specs, zenv.ResolveOpt{
		Source:             zenv.MapSource{"PUBLIC_API": "https://x", "SECRET": "s"},
		ClientSafePrefixes: []string{"PUBLIC_"},
	})
	require.NoError(t, err)

	snap := cfg.ClientSnapshot()
	require.Equal(t, map[string]any{"PUBLIC_API": "https://x"}, snap)
	require.Equal(t, []string{"PUBLIC_"}, cfg.ClientSafePrefixes())
	require.Equal(t, []string{"PUBLIC_API", "SECRET"}, cfg.Keys(), "prefix list is not a field")
}

func TestConfig_TypedHelpers(t *testing.T) {
	specs := zenv.FieldSpecs{
		zenv.Field("PORT", dsl.Port().Default(3000)),
		zenv.Field("RATE", dsl.Num().Default(1.5)),
		zenv.Field("DEBUG", dsl.Bool().Default(true)),
		zenv.Field("NAME", dsl.Str().Default("svc")),
	}
	cfg, err := zenv.Resolve(specs, zenv.ResolveOpt{Source: zenv.MapSource{}})
	require.NoError(t, err)

	n, err := cfg.Int("PORT")
	require.NoError(t, err)
	require.Equal(t, 3000, n)

	f, err := cfg.Float("RATE")
	require.NoError(t, err)
	require.Equal(t, 1.5, f)

	b, err := cfg.Bool("DEBUG")
	require.NoError(t, err)
	require.True(t, b)

	s, err := cfg.String("NAME")
	require.NoError(t, err)
	require.Equal(t, "svc", s)

	_, err = cfg.Int("NAME")
	require.Error(t, err)
}
