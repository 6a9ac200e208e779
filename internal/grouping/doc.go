// Package grouping assigns analyzed courses to equivalence groups. The
// matcher scores a candidate course against every group sharing its credit
// count using a hybrid of semantic similarity (cosine over embeddings
// against the group centroid) and lexical similarity (best Jaccard over
// member token sets), then either joins the best-scoring compatible group
// or founds a new one. The stage handler wires the matcher into the
// workflow queue, generating any missing embedding first.
package grouping
