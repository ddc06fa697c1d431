package log

import (
	"github.com/sirupsen/logrus"
)

//Fatalf logs the message and exits with a non-zero code
func Fatalf(msg string, err ...interface{}) {
	logrus.Fatalf(msg, err...)
}

//Fatal logs the message and exits with a non-zero code
func Fatal(msg string) {
	logrus.Fatal(msg)
}

//Infof logs the routine progress of the run
func Infof(msg string, val ...interface{}) {
	logrus.Infof(msg, val...)
}

//Info logs the routine progress of the run
func Info(msg string) {
	logrus.Info(msg)
}

// InfoWithValues logs the routine progress of the run along with
// the given key value pairs
func InfoWithValues(msg string, val map[string]interface{}) {
	logrus.WithFields(val).Info(msg)
}

// ErrorWithValues logs a failure along with the given key value pairs
func ErrorWithValues(msg string, val map[string]interface{}) {
	logrus.WithFields(val).Error(msg)
}

//Warn logs the non-critical entries that deserve eyes
func Warn(msg string) {
	logrus.Warn(msg)
}

//Warnf logs the non-critical entries that deserve eyes
func Warnf(msg string, val ...interface{}) {
	logrus.Warnf(msg, val...)
}

//Debugf logs the low-level entries, hidden unless the debug level is enabled
func Debugf(msg string, val ...interface{}) {
	logrus.Debugf(msg, val...)
}

//Errorf logs a failure that should definitely be noted
func Errorf(msg string, err ...interface{}) {
	logrus.Errorf(msg, err...)
}

//Error logs a failure that should definitely be noted
func Error(msg string) {
	logrus.Error(msg)
}
