/*
Package orm provides an easy to use, type safe db wrapper.

Break state space into prefixed sections called Buckets.
* Each bucket contains only one type of object, keyed by one type of key.
* Easy queries for one and iteration over all.

Values are serialized with deterministic CBOR. A value that implements
Validate() error is validated before it is written.

Iteration order of a bucket is the binary order of the encoded keys. Code
that depends on a particular order of records must sort them explicitly.
*/
package orm
