// Package core provides the business logic for the participant registry.
//
// The package owns every rule about participants and is independent of any
// transport or storage format. Web handlers, the CLI and tests all drive it
// through [Service].
//
// # Architecture
//
//   - Schema: [Normalize] coerces any raw table into the canonical column set.
//     Normalizing twice yields the same table.
//   - Identity: [IdentityKey] folds name and district into the key
//     used for duplicate detection.
//   - Service: register, check-in, import, dedupe, query and report operations.
//   - Repository: persistence is behind [Repository]. Every mutation runs inside
//     [Repository.Update], which holds the store lock across load and save.
//
// # Import
//
// Imports accept .xlsx or .csv uploads. The flow is:
//
//  1. [ReadTable] detects the format and locates the header row
//  2. [Normalize] produces canonical participants
//  3. Rows missing a name or district are skipped
//  4. Duplicates within the file collapse to their first occurrence
//  5. Rows already in the registry are skipped
//  6. Survivors are numbered from the current maximum and appended in one write
//
// At most [DefaultMaxConcurrentImports] imports run at once; see [ImportLimiter].
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - REG001-REG002: Registration errors
//   - CHK001-CHK002: Check-in errors
//   - FILE001-FILE005: File errors (size, format, empty)
//   - IMP001: Import capacity
//   - STO001-STO004: Store errors (lock, save, load, format)
//   - REQ001-REQ003: Request errors
//
// # Audit Logging
//
// Successful mutations are recorded in an in-memory [AuditTrail] and written to
// the structured log with severity levels:
//
//   - Low: Registrations
//   - Medium: Check-ins
//   - High: Imports
//   - Critical: Registry dedupe
package core
