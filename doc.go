// Package zenv validates environment variables against declared schemas at
// startup and returns an immutable, access-controlled configuration object.
//
// - Field validators are built with the dsl package (Str, Num, Bool, Port, ...)
// - Tiered defaults (Default/DevDefault/TestDefault) are selected by APP_ENV
// - Failures are aggregated into Issues (field name, code, message) across all
//   fields rather than stopping at the first one
// - The resolved Config enforces a client/server exposure boundary and rejects
//   any mutation after construction
//
// Design policy:
// - Keep only public APIs in the root package; field builders live under dsl/,
//   the SSR helper under ssr/, and the CLI under cmd/zenv.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	cfg, err := zenv.Resolve(zenv.FieldSpecs{
//		zenv.Field("PORT", dsl.Port().Default(3000)),
//		zenv.Field("LOG_LEVEL", dsl.Str().Default("info").Choices("debug", "info", "warn")),
//		zenv.Field("API_KEY", dsl.Str()),
//	})
//
//	port, _ := cfg.Int("PORT")
package zenv
