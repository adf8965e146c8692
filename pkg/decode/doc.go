// Package decode turns wire input into parameter mappings for registered
// serializations and executes them.
//
// Four formats are understood:
//
//   - positional values zipped against a chain's placeholder order (Positional, Values)
//   - slash-delimited paths "name/value1/value2" (ParsePath, Path)
//   - operation documents, as JSON {"name": ..., "stack": [...]} or as
//     operation paths "name/-op/key-value/-op2/..." (ParseJSON,
//     ParseOperationPath, FromDocument)
//   - keyed request data such as form or query values (Request)
//
// Decoders only build parameter mappings. Substitution and validation of
// the resulting mapping are left to chain.Chain.Replay, so a decoded request
// that omits a placeholder fails with chain.ErrMissingParameters.
package decode
