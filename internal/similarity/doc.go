// Package similarity implements the vector and set measures behind group
// matching: cosine similarity over embeddings, Jaccard similarity over
// lemma token sets, and centroid computation for group embeddings.
package similarity
