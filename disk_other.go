//go:build !unix

package asynclog

func diskFreeSpace(dir string) (int64, error) {
	return 0, fmtErrorf("disk free space is not available on this platform")
}
