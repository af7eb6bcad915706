// Package fixtures provides test data factories backed by the fake API.
//
// # Factory Pattern
//
//	api := fakeapi.New(t)
//	f := fixtures.New(api)
//
// # Creating Test Data
//
//	ana := f.CreateUser(t)
//	bob := f.CreateUser(t, fixtures.WithPrivate(), fixtures.WithName("Bob"))
//	crowd := f.CreateUsers(t, 15)
//
// # Clients and Sessions
//
//	c := f.Client(t)
//	sess := f.Session(t, ana) // signed in as ana
package fixtures
