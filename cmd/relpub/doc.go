// Command relpub creates releases on an error-tracking service and uploads
// build output files to them.
package main
