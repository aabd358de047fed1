// Package pipeline provides the stage-composition framework the cleansing
// stages run under: a Stage contract with separate fit and transform
// phases, an order-preserving registry, and a Runner that executes the
// registered stages strictly sequentially over a single frame.
//
// Stage order is an external contract. The runner never reorders stages,
// and every run executes each stage to completion before the next begins,
// so no stage observes a partially transformed frame.
package pipeline
