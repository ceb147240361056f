// Package schema defines the declarative form configuration consumed by the
// interpreter: a FormConfig holds ordered steps, steps hold actions, and
// field-input actions carry typed FieldProperties that may nest child actions.
//
// The model is plain data. Loaders produce it, Decode maps loosely typed JSON
// or YAML onto it, and every consumer treats each member as optional,
// applying the documented fallbacks instead of failing on missing values.
package schema
