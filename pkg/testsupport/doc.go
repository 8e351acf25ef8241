// Package testsupport holds test doubles and fixtures shared by the package
// tests: a manual scheduler, stub transports and the contact page markup.
package testsupport
