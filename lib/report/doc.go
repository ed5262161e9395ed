// Copyright 2026 The Termtap Authors
// SPDX-License-Identifier: Apache-2.0

// Package report assembles and formats the analysis of a captured
// session: the described escape sequences, the rendered and stripped
// views, the optional real-terminal reference, and the comparison
// between them.
//
// Building a report never fails. Collaborator errors (a failed
// real-terminal replay, for instance) become text in the report so
// the user always gets some analysis.
package report
