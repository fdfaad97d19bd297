// Package dsl provides the field validator builders consumed by zenv.Resolve.
//
// Builders are chainable and double as compiled validators: every builder
// implements zenv.Validator, so it can be placed directly into a FieldSpec.
//
//	zenv.FieldSpecs{
//		zenv.Field("PORT", dsl.Port().Default(3000)),
//		zenv.Field("DEBUG", dsl.Bool().Default(false).Expose()),
//		zenv.Field("LOG_LEVEL", dsl.Str().Default("info").DevDefault("debug").TestDefault("error")),
//	}
//
// Tiered defaults follow a strict priority: TestDefault under the test tier,
// DevDefault under development, Default otherwise. A default explicitly set to
// nil (Optional) makes the field accept absence without substituting a value.
//
// Custom validators are built with Make; the returned factory accepts per-use
// option overrides merged over the validator-level base options.
package dsl
