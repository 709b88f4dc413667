// Package webpage fetches a web page and turns it into Markdown so it can be
// attached to a single prompt, for example a printer's documentation page
// passed with `klippai --url`.
package webpage
