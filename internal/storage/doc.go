// Package storage keeps syllabus documents. Local documents live under the
// configured syllabi directory; when remote storage is enabled, documents
// are uploaded to and fetched from an SFTP server instead. The resolver
// hands the extraction pipeline the right source for each course.
package storage
