package assert

import "github.com/railgrind/railgrind/rerror"

func IsTrue(ok bool, message string, args ...interface{}) {
	if !ok {
		panic(rerror.New(message, args...))
	}
}
