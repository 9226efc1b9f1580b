// Package aggregates defines the write boundaries of the course catalog.
//
// CourseVersionGraph owns course families and their versions; EnrollmentBinder owns
// enrollments. Both serialize on the base course, and every failure they return is a
// *Error carrying one of the Code values.
package aggregates
