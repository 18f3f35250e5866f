package utils

import (
	crand "crypto/rand"
	"fmt"
	"math/big"
	"math/rand"
	"strings"

	"github.com/mozillazg/go-pinyin"
	"github.com/sysu-ecnc-dev/leave-manager/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "勇", "霞", "飞", "玲",
	"超", "华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌",
	"庆", "建", "丹", "彬", "凤", "旭", "宁", "乐", "成", "欣",
}
var departments = []string{"研发部", "市场部", "财务部", "人事部", "运营部"}

// GenerateRandomChineseName 返回姓和名
func GenerateRandomChineseName() (string, string) {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname, name
}

var digits = "0123456789"

// GenerateEmailLocalPart 用名字的拼音加随机数字拼出邮箱前缀，例如 zhangwei42
func GenerateEmailLocalPart(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	local := strings.Join(pinyinArray, "")

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		local += string(digits[rand.Intn(len(digits))])
	}

	return local
}

func GenerateRandomUser(password string, emailDomainName string, availableDays int) (*domain.User, error) {
	lastName, firstName := GenerateRandomChineseName()
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	department := departments[rand.Intn(len(departments))]
	user := &domain.User{
		Email:         GenerateEmailLocalPart(lastName+firstName) + "@" + emailDomainName,
		PasswordHash:  string(passwordHash),
		FirstName:     firstName,
		LastName:      lastName,
		Role:          domain.RoleEmployee,
		AvailableDays: availableDays,
		Department:    &department,
	}

	return user, nil
}

func GenerateRandomOTP() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

const invitationCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateInvitationCode 邀请码只由大写字母和数字组成，使用 crypto/rand 避免被猜中
func GenerateInvitationCode(length int) (string, error) {
	code := make([]byte, length)
	max := big.NewInt(int64(len(invitationCodeAlphabet)))
	for i := range code {
		n, err := crand.Int(crand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = invitationCodeAlphabet[n.Int64()]
	}
	return string(code), nil
}
