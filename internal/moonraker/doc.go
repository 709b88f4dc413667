// Package moonraker checks connectivity to a Moonraker instance, the HTTP
// API in front of Klipper, before printer settings are saved.
package moonraker
