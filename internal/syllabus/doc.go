// Package syllabus turns uploaded PDF documents into validated course
// content.
//
// The pipeline is a short state machine: extract per-page text from the PDF,
// reject documents that are unreadable or too short to be a digital syllabus,
// score the text against the institutional keyword model, then cut out the
// thematic-content section and the declared credit count. All detection
// failures surface as soft fields on the Extraction result rather than
// errors; only infrastructure problems (unreadable sources) carry error
// values, and even those are folded into the result by Extract.
//
// Input documents arrive through the Source variants: a filesystem path, an
// in-memory byte buffer, a generic seekable stream, or a remotely stored
// object resolved through a Fetcher.
package syllabus
