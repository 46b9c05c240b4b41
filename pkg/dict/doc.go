// Package dict implements the in-memory FIX dictionary model and its
// query engine.
//
// The Store owns one independent, immutable copy of the nine entity
// tables (messages, fields, components, enums, categories, sections,
// datatypes, abbreviations and raw composition tokens) per supported
// dictionary version. Tables are loaded exactly once at startup through
// a VersionLoader; after that initialization barrier every operation is
// a lock-free read.
//
// Three read surfaces sit on top of the store:
//
//   - Resolver reconstructs a message's or component's body from the
//     flat content table and synthesizes the denormalized message-form
//     table, resolving each "tag-or-component-name" token to a concrete
//     field or nested component.
//   - QueryEngine applies generic filter/sort/paginate semantics over
//     any entity table, treating rows as flat column-to-primitive
//     records.
//   - SearchEngine runs case-insensitive literal or regex searches
//     across names, descriptions and abbreviations, merging matches in
//     fixed kind order.
//
// The package is deliberately lenient with the semi-structured source
// data: missing files yield empty tables, malformed numerics coerce to
// zero values, unknown filter columns are ignored and unresolved
// composition references degrade to an Unknown marker instead of
// erroring.
package dict
