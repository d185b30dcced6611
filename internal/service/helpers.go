package service

import "strconv"

func subjectCompany(id int64) string {
	return "company:" + strconv.FormatInt(id, 10)
}
