/*
Package utils provides decorators used by every message handler: storage
isolation, panic recovery and logging.
*/
package utils
