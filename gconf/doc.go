/*
Package gconf implements a configuration store intended to be used as a
global, in-database configuration.

Each package stores a single configuration object under its own key. The
configuration is loaded from the "conf" section of the genesis file and may
later be updated by its owner with a patch message.
*/
package gconf
