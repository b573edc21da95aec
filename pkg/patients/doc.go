// Package patients stores patient records in SQLite and implements the chip
// and text filtering used by the patient search screen.
package patients
