// Package services holds the business logic between the HTTP controllers
// and the storage layers.
//
// Services defined in this package:
// - EmployeeService: employee records and their resume documents
package services
