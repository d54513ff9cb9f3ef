// Package writers turns run reports into serialized outputs.
//
// Design:
//   - Writers own all presentation knowledge (TSV text, JSON).
//   - schema stays domain-only and never prints.
//   - JSON goes through pkg/api (v1) for a stable wire format.
package writers
