// Package data embeds the packaged default dictionary, IDF table, stop words
// and HMM parameter files.
//
// The packaged tables are small: a few hundred dictionary words and a
// reduced POS tag set, enough to exercise every code path. Output quality
// on real text depends on the tables, not on the algorithms. Full-size
// tables can be supplied through dictionary.Load (--user-dict),
// hmm.LoadModel, hmm.LoadPOSModel and the keyword IDF and stop word files.
package data

import _ "embed"

//go:embed dict.txt
var Dictionary []byte

//go:embed idf.txt
var IDF []byte

//go:embed stop_words.txt
var StopWords []byte

//go:embed hmm_seg.yaml
var SegModel []byte

//go:embed hmm_pos.yaml
var POSModel []byte
