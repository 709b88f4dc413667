// Package logging builds the process logger. Logs go to stderr in zerolog's
// console format, at the level named by KLIPPAI_LOG_LEVEL (WARN by default).
package logging
