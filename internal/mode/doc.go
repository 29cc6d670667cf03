// Package mode resolves the batch mode into the column schema that the rest
// of the system works against.
//
// A Mode is the triple (dataset type, annotation type, graph format). Only two
// of the three axes are meaningful at a time: the annotation type applies to
// volume datasets and the graph format applies to graph datasets. Resolve is a
// pure function over the enumerated domain and is re-evaluated on every change
// to any axis.
//
//	Volume + None      -> 2 columns (name, status)
//	Volume + ID | RGB  -> 4 columns (name, annotation name, regions processed, status)
//	Graph  + CSV       -> 3 columns (vertices name, edges name, status)
//	Graph  + Other     -> 2 columns (name, status)
package mode
